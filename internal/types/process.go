package types

// BuiltinLocation is reported as the source location of the embedded
// default process table.
const BuiltinLocation = "builtin"

// UnknownVersion is used when a definition file does not declare a version.
const UnknownVersion = "unknown"

// ProcessRecord describes one canonical manufacturing process. Records are
// treated as values: the resolver never edits one in place and hands out
// copies.
type ProcessRecord struct {
	CanonicalID  string   `yaml:"-"`
	DisplayName  string   `yaml:"display_name"`
	CategoryCode string   `yaml:"tsdc_code,omitempty"`
	Parent       string   `yaml:"parent,omitempty"`
	Aliases      []string `yaml:"aliases,omitempty"`
}

// IsRoot reports whether the record has no parent.
func (r ProcessRecord) IsRoot() bool {
	return r.Parent == ""
}

// Clone returns a copy that shares no slices with r.
func (r ProcessRecord) Clone() ProcessRecord {
	out := r
	if r.Aliases != nil {
		out.Aliases = append([]string(nil), r.Aliases...)
	}
	return out
}

// DefinitionSet is an ordered record sequence together with the metadata of
// the document it was read from. Record order is significant: alias
// registration and the substring fallback both depend on it.
type DefinitionSet struct {
	Version  string
	Location string
	Records  []ProcessRecord
}

// DeclaredVersion returns the version from the source document, or
// UnknownVersion when none was declared.
func (s DefinitionSet) DeclaredVersion() string {
	if s.Version == "" {
		return UnknownVersion
	}
	return s.Version
}

// ProcessListing is a record together with its resolved hierarchy, as
// produced by the listing operation.
type ProcessListing struct {
	ID           string        `yaml:"canonical_id"`
	Record       ProcessRecord `yaml:",inline"`
	CategoryCode string        `yaml:"category_code,omitempty"`
	Children     []string      `yaml:"children,omitempty"`
	Ancestors    []string      `yaml:"ancestors,omitempty"`
}
