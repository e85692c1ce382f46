package datasource

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"market-analyzer/src/helpers"
	"market-analyzer/src/interfaces"
	"market-analyzer/src/logger"
	"market-analyzer/src/models"
)

// IInfoSource is implemented by sources that can fetch issuer metadata on
// its own. The manager uses them to fill gaps in another source's metadata.
type IInfoSource interface {
	FetchInfo(ctx context.Context, symbol string) (*models.MIssuerMetadata, error)
}

// MultiSourceManager tries its sources in order and returns the first
// successful result.
type MultiSourceManager struct {
	Sources []interfaces.IDataSource
	Logger  *logger.Logger
	mu      sync.RWMutex
}

// -----------------------------------------------------------------------------

func NewMultiSourceManager(sources []interfaces.IDataSource, log *logger.Logger) *MultiSourceManager {
	return &MultiSourceManager{
		Sources: sources,
		Logger:  log,
	}
}

// -----------------------------------------------------------------------------

func (m *MultiSourceManager) Name() string {
	return "multi"
}

// -----------------------------------------------------------------------------

// AddSource appends a source to the end of the chain.
func (m *MultiSourceManager) AddSource(source interfaces.IDataSource) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, s := range m.Sources {
		if s.Name() == source.Name() {
			return fmt.Errorf("source %s already exists", source.Name())
		}
	}

	m.Sources = append(m.Sources, source)
	m.Logger.Info("Added source: %s", source.Name())
	return nil
}

// -----------------------------------------------------------------------------

// RemoveSource drops a source from the chain.
func (m *MultiSourceManager) RemoveSource(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, s := range m.Sources {
		if s.Name() == name {
			m.Sources = append(m.Sources[:i:i], m.Sources[i+1:]...)
			m.Logger.Info("Removed source: %s", name)
			return nil
		}
	}
	return fmt.Errorf("source %s not found", name)
}

// -----------------------------------------------------------------------------

// GetAllSources returns the chain in order.
func (m *MultiSourceManager) GetAllSources() []interfaces.IDataSource {
	m.mu.RLock()
	defer m.mu.RUnlock()

	list := make([]interfaces.IDataSource, len(m.Sources))
	copy(list, m.Sources)
	return list
}

// -----------------------------------------------------------------------------

// Fetch walks the chain until a source returns bars. If every source reports
// the symbol as unknown the result is ErrDataUnavailable. Missing metadata
// fields are then filled from the remaining sources that implement
// IInfoSource.
func (m *MultiSourceManager) Fetch(ctx context.Context, symbol, period string) (*models.MStockData, error) {
	sources := m.GetAllSources()
	if len(sources) == 0 {
		return nil, fmt.Errorf("no data sources configured")
	}

	var errs []error
	allUnavailable := true
	for i, src := range sources {
		data, err := src.Fetch(ctx, symbol, period)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			m.Logger.Warning("Source %s failed for %s: %v", src.Name(), symbol, err)
			errs = append(errs, fmt.Errorf("%s: %w", src.Name(), err))
			if !errors.Is(err, helpers.ErrDataUnavailable) {
				allUnavailable = false
			}
			continue
		}

		m.enrichInfo(ctx, symbol, &data.Info, sources[i+1:])
		return data, nil
	}

	joined := errors.Join(errs...)
	if allUnavailable {
		return nil, helpers.NewError(helpers.ErrDataUnavailable,
			fmt.Sprintf("No data found for symbol %s", symbol), joined)
	}
	return nil, fmt.Errorf("all sources failed for %s: %w", symbol, joined)
}

// -----------------------------------------------------------------------------

func (m *MultiSourceManager) enrichInfo(ctx context.Context, symbol string, info *models.MIssuerMetadata, rest []interfaces.IDataSource) {
	for _, src := range rest {
		if infoComplete(info) {
			return
		}
		is, ok := src.(IInfoSource)
		if !ok {
			continue
		}
		extra, err := is.FetchInfo(ctx, symbol)
		if err != nil {
			m.Logger.Debug("Metadata from %s unavailable for %s: %v", src.Name(), symbol, err)
			continue
		}
		MergeInfo(info, extra)
	}
}

// -----------------------------------------------------------------------------

// MergeInfo copies every field of extra that dst is missing.
func MergeInfo(dst, extra *models.MIssuerMetadata) {
	if extra == nil {
		return
	}
	fillString(&dst.DisplayName, extra.DisplayName)
	fillString(&dst.Sector, extra.Sector)
	fillString(&dst.Industry, extra.Industry)
	fillString(&dst.Exchange, extra.Exchange)
	fillString(&dst.Currency, extra.Currency)
	fillFloat(&dst.MarketCap, extra.MarketCap)
	fillFloat(&dst.TrailingPE, extra.TrailingPE)
	fillFloat(&dst.FiftyTwoWeekHigh, extra.FiftyTwoWeekHigh)
	fillFloat(&dst.FiftyTwoWeekLow, extra.FiftyTwoWeekLow)
	fillFloat(&dst.Volume, extra.Volume)
	fillFloat(&dst.AverageVolume, extra.AverageVolume)
}

func fillString(dst *string, v string) {
	if strings.TrimSpace(*dst) == "" {
		*dst = v
	}
}

func fillFloat(dst **float64, v *float64) {
	if *dst == nil {
		*dst = v
	}
}

func infoComplete(i *models.MIssuerMetadata) bool {
	return i.DisplayName != "" && i.MarketCap != nil && i.TrailingPE != nil &&
		i.FiftyTwoWeekHigh != nil && i.FiftyTwoWeekLow != nil && i.Volume != nil && i.AverageVolume != nil
}
