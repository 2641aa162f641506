package config

// TelemetryConfig configures optional OpenTelemetry export.
type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Exporter    string `yaml:"exporter"` // none, stdout
	File        string `yaml:"file"`     // stdout exporter target; the console owns the real stdout
	ServiceName string `yaml:"service_name"`
}

const (
	ExporterNone   = "none"
	ExporterStdout = "stdout"
)

// ValidExporters lists the supported telemetry exporters.
var ValidExporters = []string{ExporterNone, ExporterStdout}

// Active reports whether telemetry should be initialised at all.
func (t TelemetryConfig) Active() bool {
	return t.Enabled && t.Exporter != "" && t.Exporter != ExporterNone
}
