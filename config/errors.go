package config

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
)

// FileNotFoundError is returned when the config file does not exist.
type FileNotFoundError struct {
	Path string
}

func (err FileNotFoundError) Error() string {
	return fmt.Sprintf("config file %s does not exist", err.Path)
}

// ParseError wraps the HCL diagnostics of an invalid config file.
type ParseError struct {
	ConfigFile string
	Diags      hcl.Diagnostics
}

func (err ParseError) Error() string {
	return fmt.Sprintf("unable to parse %s: %s", err.ConfigFile, err.Diags.Error())
}

func (err ParseError) Unwrap() error {
	return err.Diags
}

type PanicWhileParsingConfigError struct {
	RecoveredValue any
	ConfigFile     string
}

func (err PanicWhileParsingConfigError) Error() string {
	return fmt.Sprintf("Recovering panic while parsing '%s'. Got error of type '%v': %v", err.ConfigFile, err.RecoveredValue, err.RecoveredValue)
}
