package integration

import "fmt"

// Package integration provides named pipeline profiles for the streamio
// launcher. A preset bundles the stage switches that usually travel together
// (hex direction, zstd direction and level, buffer size) so a common job is a
// single flag instead of four.
//
// Usage:
//   cfg := integration.HexDumpPreset()   // bytes in, hex text out
//   cfg := integration.ArchivePreset()   // bytes in, zstd frame out
//   cfg := integration.TemplatePreset()  // placeholder substitution
//
// The launcher applies the preset after the config file and before explicit
// flags, so any flag still overrides what the preset chose.

// PresetConfig captures the stage switches a preset may set. It leaves out
// inputs, outputs and replacement values, which belong to the job.
type PresetConfig struct {
	Name           string // identifier used by --preset and in logs
	BufferSize     int    // read/write buffer size; 0 keeps the current value
	HexDecode      bool   // decode hex text on the source side
	HexEncode      bool   // encode hex text on the sink side
	ZstdDecompress bool   // decompress zstd input
	ZstdCompress   bool   // compress output with zstd
	ZstdLevel      int    // zstd level; 0 keeps the current value
	Replace        bool   // run the replacer stage even without values
}

func DefaultPreset() PresetConfig {

	return PresetConfig{
		Name:       "default",
		BufferSize: 8192, // one page-aligned buffer per side
		ZstdLevel:  3,    // zstd's own default trade-off
	}
}

// HexDumpPreset turns arbitrary bytes into lowercase hex text.
func HexDumpPreset() PresetConfig {
	cfg := DefaultPreset()
	cfg.Name = "hexdump"
	cfg.HexEncode = true
	return cfg
}

// HexLoadPreset turns hex text (either case) back into bytes.
func HexLoadPreset() PresetConfig {
	cfg := DefaultPreset()
	cfg.Name = "hexload"
	cfg.HexDecode = true
	return cfg
}

// ArchivePreset compresses hard with large buffers, for files that are
// written once and read rarely.
func ArchivePreset() PresetConfig {
	cfg := DefaultPreset()
	cfg.Name = "archive"
	cfg.BufferSize = 64 * 1024 // fewer, larger writes to the output file
	cfg.ZstdCompress = true
	cfg.ZstdLevel = 19
	return cfg
}

// UnarchivePreset reverses ArchivePreset.
func UnarchivePreset() PresetConfig {
	cfg := DefaultPreset()
	cfg.Name = "unarchive"
	cfg.BufferSize = 64 * 1024
	cfg.ZstdDecompress = true
	return cfg
}

// TemplatePreset runs the replacer, so unresolved placeholders are reported
// even when no values are configured.
func TemplatePreset() PresetConfig {
	cfg := DefaultPreset()
	cfg.Name = "template"
	cfg.Replace = true
	return cfg
}

// GetPresetByName looks up a preset by its string identifier.
//
// Example:
//
//	preset, err := integration.GetPresetByName("archive")
//	if err != nil {
//	    return err
//	}
func GetPresetByName(name string) (PresetConfig, error) {
	switch name {
	case "default":
		return DefaultPreset(), nil
	case "hexdump":
		return HexDumpPreset(), nil
	case "hexload":
		return HexLoadPreset(), nil
	case "archive":
		return ArchivePreset(), nil
	case "unarchive":
		return UnarchivePreset(), nil
	case "template":
		return TemplatePreset(), nil
	default:
		return PresetConfig{}, fmt.Errorf("unknown preset: %q (valid: %v)", name, PresetNames())
	}
}

// PresetNames lists every preset GetPresetByName accepts.
func PresetNames() []string {
	return []string{"default", "hexdump", "hexload", "archive", "unarchive", "template"}
}

// ApplyPreset merges preset into target. Sizes and levels are applied only
// when set, stage switches always.
func ApplyPreset(target *PresetConfig, preset PresetConfig) {
	if preset.BufferSize > 0 {
		target.BufferSize = preset.BufferSize
	}
	if preset.ZstdLevel > 0 {
		target.ZstdLevel = preset.ZstdLevel
	}
	// boolean switches are always applied (no zero-value check needed)
	target.HexDecode = preset.HexDecode
	target.HexEncode = preset.HexEncode
	target.ZstdDecompress = preset.ZstdDecompress
	target.ZstdCompress = preset.ZstdCompress
	target.Replace = preset.Replace
	if preset.Name != "" {
		target.Name = preset.Name
	}
}
