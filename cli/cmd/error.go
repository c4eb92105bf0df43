package cmd

import "github.com/ardnew/onels/pkg"

var (
	ErrReadInput    = pkg.NewError("read input")
	ErrCompile      = pkg.NewError("compile expression")
	ErrEvaluate     = pkg.NewError("evaluate expression")
	ErrOutputFormat = pkg.NewError("unknown output format")
	ErrCategory     = pkg.NewError("unknown shortcut category")
	ErrYAMLMarshal  = pkg.NewError("marshal YAML")
	ErrWriteConfig  = pkg.NewError("write configuration file")
	ErrFileExists   = pkg.NewError("file exists (use --force to overwrite)")
)
