package cli

import "github.com/ardnew/onels/pkg"

var (
	ErrRuntimeDir = pkg.NewError("create runtime directory")
	ErrConfig     = pkg.NewError("read configuration file")
)
