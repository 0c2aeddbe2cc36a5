package deps

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/movey-network/movey/pkg/errors"
)

// Messages shown for manifest failures.
const (
	msgNotInPackageRoot    = "Not in Move package root directory"
	msgBadFormat           = "Wrong Move.toml format for Movey dependencies. Error: %v"
	msgUnsupportedResolver = "The CLI only resolve Movey dependencies."
)

// manifestFile is the subset of Move.toml movey reads. Pointers distinguish
// a missing section from an empty one.
type manifestFile struct {
	Dependencies *struct {
		Movey *struct {
			Resolver *string       `toml:"resolver"`
			Packages map[string]any `toml:"packages"`
			Onchain  map[string]any `toml:"onchain"`
		} `toml:"movey"`
	} `toml:"dependencies"`
}

// LoadManifest reads and parses the manifest at path.
// A missing file is reported as MANIFEST_NOT_FOUND; any other read failure
// as BAD_FORMAT.
func LoadManifest(path string) (*Declarations, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrap(errors.ErrCodeManifestNotFound, err, msgNotInPackageRoot)
		}
		return nil, badFormat(err)
	}
	return ParseManifest(string(data))
}

// ParseManifest decodes manifest text into its Movey dependency declarations.
//
// The text must contain a [dependencies.movey] table whose resolver is
// "movey"; its optional packages and onchain tables map dependency names to
// schemes, each either a string or a table. Scheme contents are not
// interpreted.
//
// Errors:
//   - BAD_FORMAT when the text is not valid TOML, a section is missing, or a
//     value has the wrong type
//   - UNSUPPORTED_RESOLVER when resolver is present but not "movey"
func ParseManifest(text string) (*Declarations, error) {
	var m manifestFile
	if _, err := toml.Decode(text, &m); err != nil {
		return nil, badFormat(err)
	}

	if m.Dependencies == nil {
		return nil, badFormat(fmt.Errorf("missing [dependencies] section"))
	}
	movey := m.Dependencies.Movey
	if movey == nil {
		return nil, badFormat(fmt.Errorf("missing [dependencies.%s] section", ResolverMovey))
	}
	if movey.Resolver == nil {
		return nil, badFormat(fmt.Errorf("missing field `resolver`"))
	}
	if *movey.Resolver != ResolverMovey {
		return nil, errors.New(errors.ErrCodeUnsupportedResolver, msgUnsupportedResolver)
	}

	packages, err := declarations(GroupPackages, movey.Packages)
	if err != nil {
		return nil, err
	}
	onchain, err := declarations(GroupOnchain, movey.Onchain)
	if err != nil {
		return nil, err
	}

	return &Declarations{
		Resolver: *movey.Resolver,
		Packages: packages,
		Onchain:  onchain,
	}, nil
}

func declarations(group Group, table map[string]any) ([]Declaration, error) {
	out := make([]Declaration, 0, len(table))
	for name, raw := range table {
		if err := errors.ValidatePackageName(name); err != nil {
			return nil, badFormat(fmt.Errorf("%s: %s", group, errors.UserMessage(err)))
		}
		s, err := schemeOf(raw)
		if err != nil {
			return nil, badFormat(fmt.Errorf("%s.%s: %w", group, name, err))
		}
		out = append(out, Declaration{Name: name, Scheme: s, Group: group})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func schemeOf(raw any) (Scheme, error) {
	switch v := raw.(type) {
	case string:
		if v == "" {
			return Scheme{}, fmt.Errorf("scheme cannot be empty")
		}
		return PlainScheme(v), nil
	case map[string]any:
		if len(v) == 0 {
			return Scheme{}, fmt.Errorf("scheme table cannot be empty")
		}
		return StructuredScheme(tomlValues(v)), nil
	default:
		return Scheme{}, fmt.Errorf("invalid type: expected a string or a table, found %T", raw)
	}
}

// tomlValues replaces decoded TOML dates and times with the text they were
// written as, so that table schemes only hold JSON-friendly values.
func tomlValues(table map[string]any) map[string]any {
	out := make(map[string]any, len(table))
	for k, v := range table {
		out[k] = tomlValue(v)
	}
	return out
}

func tomlValue(v any) any {
	switch v := v.(type) {
	case time.Time:
		return tomlTime(v)
	case map[string]any:
		return tomlValues(v)
	case []map[string]any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = tomlValues(e)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = tomlValue(e)
		}
		return out
	default:
		return v
	}
}

// tomlTime formats t in its TOML form. The decoder marks local values with
// fixed zones named after their TOML type.
func tomlTime(t time.Time) string {
	switch t.Location().String() {
	case "datetime-local":
		return t.Format("2006-01-02T15:04:05.999999999")
	case "date-local":
		return t.Format("2006-01-02")
	case "time-local":
		return t.Format("15:04:05.999999999")
	default:
		return t.Format(time.RFC3339Nano)
	}
}

func badFormat(cause error) error {
	return errors.Wrap(errors.ErrCodeBadFormat, cause, msgBadFormat, cause)
}
