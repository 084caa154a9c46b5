// Package view defines the framework-level rendering contract: template search
// paths with optional namespaces, layered default parameters and a single
// Render entry point. Concrete engines live in subpackages (see view/pongo).
package view
