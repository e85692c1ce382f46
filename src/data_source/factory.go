package datasource

import (
	"fmt"

	"market-analyzer/src/data_source/financego"
	"market-analyzer/src/data_source/yahoo"
	"market-analyzer/src/interfaces"
	"market-analyzer/src/logger"
	"market-analyzer/src/models"
)

// NewSource builds the provider named by cfg.Type.
func NewSource(cfg models.MSourceConfig, netMgr interfaces.INetworkManager, log *logger.Logger) (interfaces.IDataSource, error) {
	switch cfg.Type {
	case "yahoo":
		return yahoo.NewYahooFinanceSource(cfg, netMgr, log), nil
	case "financego":
		return financego.NewFinanceGoSource(cfg, log), nil
	default:
		return nil, fmt.Errorf("unsupported source type: %s", cfg.Type)
	}
}

// -----------------------------------------------------------------------------

// NewSourceChain builds every configured source, in order, behind a
// MultiSourceManager.
func NewSourceChain(cfgs []models.MSourceConfig, netMgr interfaces.INetworkManager, log *logger.Logger) (*MultiSourceManager, error) {
	sources := make([]interfaces.IDataSource, 0, len(cfgs))
	for _, c := range cfgs {
		src, err := NewSource(c, netMgr, log)
		if err != nil {
			return nil, fmt.Errorf("source %s: %w", c.Name, err)
		}
		sources = append(sources, src)
	}
	return NewMultiSourceManager(sources, log.Named("MultiSourceManager")), nil
}

// -----------------------------------------------------------------------------

// SourceType reports the configured type of a built source.
func SourceType(src interfaces.IDataSource) string {
	switch src.(type) {
	case *yahoo.YahooFinanceSource:
		return "yahoo"
	case *financego.FinanceGoSource:
		return "financego"
	default:
		return "unknown"
	}
}
