package svg

// BarOpts customises the monthly bar chart renderer.
type BarOpts struct {
	Title       string
	Description string
	SeriesLabel string
	Color       string
	AxisColor   string
	GridColor   string
	Padding     float64
	TickCount   int
}

// PieOpts customises the payment split renderer.
type PieOpts struct {
	Title       string
	Description string
	Colors      []string
	LabelColor  string
}

// Defaults for the dashboard charts.
const (
	DefaultWidth   = 720
	DefaultHeight  = 240
	DefaultPadding = 24.0
	DefaultTicks   = 6
)
