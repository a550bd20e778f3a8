package yaml

// LoaderConfig collects the loader's limits and policy switches. The zero
// value is not usable; start from DefaultLoaderConfig or use options.
type LoaderConfig struct {
	// MaxExpansion bounds the total alias materialization cost per
	// document, defeating billion-laughs inputs.
	MaxExpansion uint64 `validate:"gt=0"`
	// MaxDepth bounds node nesting during composition.
	MaxDepth int `validate:"gt=0"`
	// PermitDuplicateKeys switches duplicate mapping keys from an error to
	// last-wins.
	PermitDuplicateKeys bool
	// StrictAnchors turns anchor redefinition into an error instead of a
	// collected warning.
	StrictAnchors bool
	// YAML11Bools additionally resolves yes/no/on/off as booleans.
	YAML11Bools bool
}

// DefaultLoaderConfig returns the standard configuration.
func DefaultLoaderConfig() LoaderConfig {
	return LoaderConfig{
		MaxExpansion: 10_000_000,
		MaxDepth:     10_000,
	}
}

// LoaderOption adjusts a LoaderConfig.
type LoaderOption func(*LoaderConfig) error

// MaxExpansion overrides the alias expansion budget.
func MaxExpansion(n uint64) LoaderOption {
	return func(c *LoaderConfig) error {
		c.MaxExpansion = n
		return nil
	}
}

// MaxDepth overrides the nesting limit.
func MaxDepth(n int) LoaderOption {
	return func(c *LoaderConfig) error {
		c.MaxDepth = n
		return nil
	}
}

// PermitDuplicateKeys makes duplicate mapping keys last-wins instead of an
// error.
func PermitDuplicateKeys() LoaderOption {
	return func(c *LoaderConfig) error {
		c.PermitDuplicateKeys = true
		return nil
	}
}

// StrictAnchors rejects anchor redefinition.
func StrictAnchors() LoaderOption {
	return func(c *LoaderConfig) error {
		c.StrictAnchors = true
		return nil
	}
}

// YAML11Bools enables the YAML 1.1 boolean forms (yes/no/on/off).
func YAML11Bools() LoaderOption {
	return func(c *LoaderConfig) error {
		c.YAML11Bools = true
		return nil
	}
}
