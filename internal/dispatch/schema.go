package dispatch

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/xeipuuv/gojsonschema"
)

// Typed parameter shapes, one per wire method. The dispatcher validates the
// raw params mapping against the schema reflected from these before decoding
// into them, so capabilities only ever see well-typed arguments.
type (
	healthParams      struct{}
	kernelStartParams struct {
		Kernel string `json:"kernel"`
	}
	instanceParams struct {
		Instance string `json:"instance"`
	}
	codeParams struct {
		Code     string `json:"code"`
		Instance string `json:"instance"`
	}
	variableParams struct {
		Name     string `json:"name"`
		Instance string `json:"instance"`
	}
	variableSetParams struct {
		Name     string `json:"name"`
		Value    any    `json:"value"`
		Instance string `json:"instance"`
	}
	assistantParams struct {
		Task      map[string]any `json:"task"`
		Options   map[string]any `json:"options"`
		Assistant string         `json:"assistant"`
	}
)

// mustParamSchema reflects a JSON schema from the typed param struct P and
// compiles it for validation. Reflection failures are programming errors and
// panic at startup rather than surfacing per request.
func mustParamSchema[P any]() *gojsonschema.Schema {
	r := &jsonschema.Reflector{
		DoNotReference:            true,
		ExpandedStruct:            true,
		AllowAdditionalProperties: true,
	}
	s := r.Reflect(new(P))
	// The validator predates draft 2020-12; dropping the $schema marker keeps
	// it in its permissive hybrid mode, which covers the subset we emit.
	s.Version = ""
	b, err := json.Marshal(s)
	if err != nil {
		panic(fmt.Sprintf("dispatch: failed to marshal param schema: %v", err))
	}
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(b))
	if err != nil {
		panic(fmt.Sprintf("dispatch: failed to compile param schema: %v", err))
	}
	return compiled
}

// validateParams checks raw against schema and renders a single-line
// diagnostic on failure.
func validateParams(schema *gojsonschema.Schema, raw json.RawMessage) error {
	res, err := schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("params are not a valid object: %w", err)
	}
	if res.Valid() {
		return nil
	}
	details := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		details = append(details, e.String())
	}
	return fmt.Errorf("invalid params: %s", strings.Join(details, "; "))
}
