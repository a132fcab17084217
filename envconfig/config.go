// config.go - Haupt-Konfigurationsfunktionen fuer tensorx
//
// Dieses Modul enthaelt:
// - LogLevel: Gibt Log-Level zurueck (TENSORX_DEBUG)
// - Seed: Gibt den Graph-Seed zurueck (TENSORX_SEED)
// - NumThreads: Gibt die Parallelitaet fuer Batch-Operationen zurueck (TENSORX_NUM_THREADS)
// - Var: Liest eine Environment-Variable
//
// Weitere Konfigurationen sind ausgelagert:
// - config_features.go: Backend-Auswahl und Ausgabe-Einstellungen
// - config_utils.go: Utility-Funktionen und AsMap/Values
package envconfig

import (
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"strings"
)

// LogLevel gibt das Log-Level zurueck
// Konfigurierbar via TENSORX_DEBUG
// Werte: 0/false = INFO (Default), 1/true = DEBUG, 2 = TRACE
func LogLevel() slog.Level {
	level := slog.LevelInfo
	if s := Var("TENSORX_DEBUG"); s != "" {
		if b, _ := strconv.ParseBool(s); b {
			level = slog.LevelDebug
		} else if i, _ := strconv.ParseInt(s, 10, 64); i != 0 {
			level = slog.Level(i * -4)
		}
	}

	return level
}

// Seed gibt den Graph-Seed zurueck
// Konfigurierbar via TENSORX_SEED
// Default: 0 (zufaelliger Seed pro Backend)
func Seed() uint64 {
	return Uint64("TENSORX_SEED", 0)()
}

// NumThreads gibt die maximale Parallelitaet fuer Batch-Operationen zurueck
// Konfigurierbar via TENSORX_NUM_THREADS
// Default: Anzahl der CPUs
func NumThreads() int {
	n := Uint("TENSORX_NUM_THREADS", 0)()
	if n == 0 {
		return runtime.NumCPU()
	}

	return int(n)
}

// Var gibt eine Environment-Variable zurueck
// Entfernt fuehrende/trailing Quotes und Leerzeichen
func Var(key string) string {
	return strings.Trim(strings.TrimSpace(os.Getenv(key)), "\"'")
}
