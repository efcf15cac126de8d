package config

import "fmt"

// Merge combines two configs where overlay takes precedence over base.
//   - version: must agree if both declare it (non-zero); error on mismatch
//   - output_dir, concurrency, cache and fetch fields: overlay wins when set
//   - variables, layouts: deep merge, overlay keys win
//   - files: concatenate (base first, then overlay)
func Merge(base, overlay *Config) (*Config, error) {
	if base == nil {
		return overlay, nil
	}
	if overlay == nil {
		return base, nil
	}

	result := &Config{}

	if err := mergeVersion(base.Version, overlay.Version, &result.Version); err != nil {
		return nil, err
	}

	result.OutputDir = firstNonZero(overlay.OutputDir, base.OutputDir)
	result.Concurrency = firstNonZero(overlay.Concurrency, base.Concurrency)

	result.Cache = CacheConfig{
		Dir:           firstNonZero(overlay.Cache.Dir, base.Cache.Dir),
		MemoryEntries: firstNonZero(overlay.Cache.MemoryEntries, base.Cache.MemoryEntries),
		Disabled:      base.Cache.Disabled || overlay.Cache.Disabled,
	}
	result.Fetch = FetchConfig{
		Timeout: firstNonZero(overlay.Fetch.Timeout, base.Fetch.Timeout),
		MaxSize: firstNonZero(overlay.Fetch.MaxSize, base.Fetch.MaxSize),
	}

	result.Variables = mergeMaps(base.Variables, overlay.Variables)
	result.Layouts = mergeMaps(base.Layouts, overlay.Layouts)

	result.Files = append(result.Files, base.Files...)
	result.Files = append(result.Files, overlay.Files...)

	return result, nil
}

// MergeAll merges multiple configs in order (lowest precedence first).
// Returns an error if any version mismatch is found.
func MergeAll(configs []*Config) (*Config, error) {
	if len(configs) == 0 {
		return nil, fmt.Errorf("no configs to merge")
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		var err error
		result, err = Merge(result, configs[i])
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

func mergeVersion(base, overlay int, out *int) error {
	switch {
	case base == 0:
		*out = overlay
	case overlay == 0, base == overlay:
		*out = base
	default:
		return fmt.Errorf("config version mismatch: one layer declares version %d, another declares version %d; all config layers must agree on version", base, overlay)
	}
	return nil
}

func mergeMaps(base, overlay map[string]string) map[string]string {
	if len(base) == 0 && len(overlay) == 0 {
		return nil
	}

	result := make(map[string]string, len(base)+len(overlay))
	for k, v := range base {
		result[k] = v
	}
	for k, v := range overlay {
		result[k] = v
	}
	return result
}

func firstNonZero[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}
