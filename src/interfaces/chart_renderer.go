package interfaces

import "stock-insight/src/models"

// -----------------------------------------------------------------------------
// IChartRenderer turns a series into embeddable image data URIs.
// -----------------------------------------------------------------------------

type IChartRenderer interface {
	Render(series models.MSeries, label string) ([]string, error)
}
