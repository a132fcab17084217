// config_features.go - Backend-Auswahl und Ausgabe-Einstellungen
//
// Dieses Modul enthaelt:
// - Backend-Auswahl (TENSORX_BACKEND)
// - Dump-Einstellungen fuer die CLI
package envconfig

// =============================================================================
// Backend-Auswahl
// =============================================================================

var (
	// Backend waehlt das Graph-Backend; leer = einziges registriertes Backend
	Backend = String("TENSORX_BACKEND")
)

// =============================================================================
// Ausgabe-Einstellungen
// =============================================================================

var (
	// DumpThreshold setzt die Elementanzahl, ab der Tensoren gekuerzt ausgegeben werden
	DumpThreshold = Uint("TENSORX_DUMP_THRESHOLD", 1000)

	// DumpPrecision setzt die Nachkommastellen bei der Tensor-Ausgabe
	DumpPrecision = Uint("TENSORX_DUMP_PRECISION", 4)

	// NoTable deaktiviert die tabellarische Ausgabe von Sparse-Tensoren
	NoTable = Bool("TENSORX_NO_TABLE")
)
