// backend.go - Registrierung der eingebauten Backends
// Ein Blank-Import dieses Pakets macht alle Backends fuer ml.NewBackend verfuegbar.
package backend

import (
	_ "github.com/tensorx/tensorx/ml/backend/gonum"
)
