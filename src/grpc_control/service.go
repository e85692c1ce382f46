package grpc_control

import (
	"context"
	"fmt"

	"market-analyzer/src/auth"
	"market-analyzer/src/config"
	datasource "market-analyzer/src/data_source"
	"market-analyzer/src/interfaces"
	"market-analyzer/src/logger"
	"market-analyzer/src/models"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

// ControlService implements ControlServer: runtime management of the
// provider chain and the data cache.
type ControlService struct {
	Config         *config.Config
	DataSource     *datasource.MultiSourceManager
	Cache          *datasource.CachedSource
	Sessions       *auth.SessionStore
	ConfigPath     string
	Logger         *logger.Logger
	NetworkManager interfaces.INetworkManager
	Health         *health.Server
}

// NewControlService creates a new instance of ControlService
func NewControlService(
	cfg *config.Config,
	ds *datasource.MultiSourceManager,
	cache *datasource.CachedSource,
	sessions *auth.SessionStore,
	cfgPath string,
	log *logger.Logger,
	netMgr interfaces.INetworkManager,
) *ControlService {
	s := &ControlService{
		Config:         cfg,
		DataSource:     ds,
		Cache:          cache,
		Sessions:       sessions,
		ConfigPath:     cfgPath,
		Logger:         log,
		NetworkManager: netMgr,
		Health:         health.NewServer(),
	}

	s.Health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	s.Health.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	for _, src := range ds.GetAllSources() {
		s.Health.SetServingStatus(sourceHealthName(src.Name()), healthpb.HealthCheckResponse_SERVING)
	}
	return s
}

// -----------------------------------------------------------------------------

func sourceHealthName(name string) string {
	return "source/" + name
}

// -----------------------------------------------------------------------------

func (s *ControlService) sourceStatuses() []*SourceStatus {
	sources := s.DataSource.GetAllSources()
	response := make([]*SourceStatus, 0, len(sources))
	for i, src := range sources {
		response = append(response, &SourceStatus{
			Name:     src.Name(),
			Type:     datasource.SourceType(src),
			Position: i,
		})
	}
	return response
}

// -----------------------------------------------------------------------------

func (s *ControlService) saveConfig() {
	if s.ConfigPath == "" {
		return
	}
	if err := s.Config.Save(s.ConfigPath); err != nil {
		s.Logger.Error("gRPC: Failed to persist config: %v", err)
	}
}

// -----------------------------------------------------------------------------

func (s *ControlService) ListSources(ctx context.Context, req *Empty) (*ListSourcesResponse, error) {
	return &ListSourcesResponse{Sources: s.sourceStatuses()}, nil
}

// -----------------------------------------------------------------------------

func (s *ControlService) AddSource(ctx context.Context, req *AddSourceRequest) (*SourceControlResponse, error) {
	if req.Name == "" || req.Type == "" {
		return nil, status.Error(codes.InvalidArgument, "name and type are required")
	}

	for _, src := range s.DataSource.GetAllSources() {
		if src.Name() == req.Name {
			return nil, status.Errorf(codes.AlreadyExists, "source %s already exists", req.Name)
		}
	}

	sourceCfg := models.MSourceConfig{
		Name:    req.Name,
		Type:    req.Type,
		BaseURL: req.BaseURL,
	}

	newSource, err := datasource.NewSource(sourceCfg, s.NetworkManager, s.Logger)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	if err := s.DataSource.AddSource(newSource); err != nil {
		s.Logger.Error("Failed to add source: %v", err)
		return &SourceControlResponse{
			Success:      false,
			Message:      fmt.Sprintf("Failed to add source: %v", err),
			CurrentState: "absent",
		}, nil
	}

	s.Config.DataSource.Sources = append(s.Config.DataSource.Sources, sourceCfg)
	s.saveConfig()
	s.Health.SetServingStatus(sourceHealthName(req.Name), healthpb.HealthCheckResponse_SERVING)

	return &SourceControlResponse{
		Success:      true,
		Message:      fmt.Sprintf("Added source %s", req.Name),
		CurrentState: "active",
	}, nil
}

// -----------------------------------------------------------------------------

func (s *ControlService) RemoveSource(ctx context.Context, req *RemoveSourceRequest) (*SourceControlResponse, error) {
	if req.Name == "" {
		return nil, status.Error(codes.InvalidArgument, "name is required")
	}

	if err := s.DataSource.RemoveSource(req.Name); err != nil {
		return &SourceControlResponse{
			Success:      false,
			Message:      fmt.Sprintf("Failed to remove source: %v", err),
			CurrentState: "unknown",
		}, nil
	}

	newSources := []models.MSourceConfig{}
	for _, src := range s.Config.DataSource.Sources {
		if src.Name != req.Name {
			newSources = append(newSources, src)
		}
	}
	s.Config.DataSource.Sources = newSources
	s.saveConfig()
	s.Health.SetServingStatus(sourceHealthName(req.Name), healthpb.HealthCheckResponse_NOT_SERVING)

	return &SourceControlResponse{
		Success:      true,
		Message:      fmt.Sprintf("Removed source %s", req.Name),
		CurrentState: "removed",
	}, nil
}

// -----------------------------------------------------------------------------

func (s *ControlService) PurgeCache(ctx context.Context, req *PurgeCacheRequest) (*PurgeCacheResponse, error) {
	if s.Cache == nil {
		return nil, status.Error(codes.FailedPrecondition, "cache is disabled")
	}

	var removed int
	if req.All {
		removed = s.Cache.Clear()
	} else {
		removed = s.Cache.Purge()
	}
	s.Logger.Info("gRPC: PurgeCache removed %d entries (all=%v)", removed, req.All)

	return &PurgeCacheResponse{Removed: removed, Remaining: s.Cache.Len()}, nil
}

// -----------------------------------------------------------------------------

func (s *ControlService) GetStatus(ctx context.Context, req *Empty) (*StatusResponse, error) {
	resp := &StatusResponse{Sources: s.sourceStatuses()}
	if s.Cache != nil {
		resp.CacheEntries = s.Cache.Len()
	}
	if s.Sessions != nil {
		resp.ActiveSessions = s.Sessions.Len()
	}
	return resp, nil
}
