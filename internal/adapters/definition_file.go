package adapters

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"process-resolver/internal/ports"
	"process-resolver/internal/types"
)

// DefaultDefinitionsPath is where the host application keeps its process
// definitions. A missing file at this path is not an error at startup.
const DefaultDefinitionsPath = "config/processes.yaml"

// DefinitionFileAdapter loads process definitions from a YAML file.
type DefinitionFileAdapter struct{}

func NewDefinitionFileAdapter() DefinitionFileAdapter {
	return DefinitionFileAdapter{}
}

func (a DefinitionFileAdapter) Load(path string) (types.DefinitionSet, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return types.DefinitionSet{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("process definitions path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return types.DefinitionSet{}, errbuilder.New().
				WithCode(errbuilder.CodeNotFound).
				WithMsg("process definitions file not found: " + path).
				WithCause(err)
		}
		return types.DefinitionSet{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to read process definitions file: " + path).
			WithCause(err)
	}
	set, err := ParseDefinitions(data, path)
	if err != nil {
		return types.DefinitionSet{}, err
	}
	log.Debug().
		Str("path", path).
		Str("version", set.DeclaredVersion()).
		Int("processes", len(set.Records)).
		Msg("process definitions loaded")
	return set, nil
}

// ParseDefinitions decodes a definitions document. The document is walked
// as a yaml.Node tree so that the order of the processes mapping survives
// decoding; duplicate process keys are kept for the validator to report.
func ParseDefinitions(data []byte, location string) (types.DefinitionSet, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return types.DefinitionSet{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse process definitions yaml: " + location).
			WithCause(err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return types.DefinitionSet{}, parseError(location, "document is empty")
	}
	root := deref(doc.Content[0])
	if root.Kind != yaml.MappingNode {
		return types.DefinitionSet{}, parseError(location, "document root must be a mapping")
	}

	set := types.DefinitionSet{Location: location}
	var processes *yaml.Node
	for i := 0; i+1 < len(root.Content); i += 2 {
		key := root.Content[i].Value
		value := deref(root.Content[i+1])
		switch key {
		case "version":
			version, err := scalarField(value, location, "version")
			if err != nil {
				return types.DefinitionSet{}, err
			}
			set.Version = version
		case "processes":
			processes = value
		default:
			log.Debug().Str("location", location).Str("key", key).Msg("ignoring unknown top-level key")
		}
	}
	if processes == nil || processes.Kind != yaml.MappingNode || len(processes.Content) == 0 {
		return types.DefinitionSet{}, parseError(location, "processes must be a non-empty mapping")
	}

	set.Records = make([]types.ProcessRecord, 0, len(processes.Content)/2)
	for i := 0; i+1 < len(processes.Content); i += 2 {
		id := processes.Content[i].Value
		record, err := parseRecord(id, deref(processes.Content[i+1]), location)
		if err != nil {
			return types.DefinitionSet{}, err
		}
		set.Records = append(set.Records, record)
	}
	return set, nil
}

func parseRecord(id string, node *yaml.Node, location string) (types.ProcessRecord, error) {
	if node.Kind != yaml.MappingNode {
		return types.ProcessRecord{}, parseError(location, fmt.Sprintf("process %q must be a mapping", id))
	}
	record := types.ProcessRecord{CanonicalID: id}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		value := deref(node.Content[i+1])
		field := id + "." + key
		var err error
		switch key {
		case "display_name":
			record.DisplayName, err = scalarField(value, location, field)
		case "tsdc_code":
			record.CategoryCode, err = scalarField(value, location, field)
		case "parent":
			record.Parent, err = scalarField(value, location, field)
		case "aliases":
			record.Aliases, err = aliasesField(value, location, field)
		default:
			log.Debug().Str("location", location).Str("field", field).Msg("ignoring unknown process field")
		}
		if err != nil {
			return types.ProcessRecord{}, err
		}
	}
	if strings.TrimSpace(record.DisplayName) == "" {
		return types.ProcessRecord{}, parseError(location, fmt.Sprintf("process %q is missing display_name", id))
	}
	return record, nil
}

// scalarField returns the trimmed text of a scalar; null yields "".
func scalarField(node *yaml.Node, location string, field string) (string, error) {
	if isNull(node) {
		return "", nil
	}
	if node.Kind != yaml.ScalarNode {
		return "", parseError(location, field+" must be a scalar")
	}
	return strings.TrimSpace(node.Value), nil
}

func aliasesField(node *yaml.Node, location string, field string) ([]string, error) {
	if isNull(node) {
		return nil, nil
	}
	if node.Kind != yaml.SequenceNode {
		return nil, parseError(location, field+" must be a list of strings")
	}
	aliases := make([]string, 0, len(node.Content))
	for _, item := range node.Content {
		item = deref(item)
		if item.Kind != yaml.ScalarNode || item.ShortTag() != "!!str" {
			return nil, parseError(location, field+" must be a list of strings")
		}
		aliases = append(aliases, item.Value)
	}
	return aliases, nil
}

func isNull(node *yaml.Node) bool {
	return node.Kind == yaml.ScalarNode && node.ShortTag() == "!!null"
}

// deref follows YAML anchors so *ref entries behave like their target.
func deref(node *yaml.Node) *yaml.Node {
	for node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	return node
}

func parseError(location string, msg string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf("invalid process definitions %s: %s", location, msg))
}

var _ ports.DefinitionSourcePort = DefinitionFileAdapter{}
