/*
Package prototest keeps the codec.proto files honest. The models are
encoded from their protobuf struct tags, the proto files describe the same
wire format for clients in other languages. AssertMatches fails when the two
drift apart.
*/
package prototest

import (
	"io/ioutil"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Field is a single field of a protobuf message, reduced to what the
// encoding depends on.
type Field struct {
	Name     string
	Number   int
	Wire     string
	Repeated bool
}

var (
	lineComment = regexp.MustCompile(`//[^\n]*`)
	fieldOpts   = regexp.MustCompile(`(?s)\[[^\]]*\]`)
	block       = regexp.MustCompile(`(?s)\b(message|enum)\s+(\w+)\s*\{([^}]*)\}`)
	fieldDecl   = regexp.MustCompile(`^(repeated\s+)?([\w.]+)\s+(\w+)\s*=\s*(\d+)$`)
)

var varints = map[string]bool{
	"bool":   true,
	"int32":  true,
	"int64":  true,
	"uint32": true,
	"uint64": true,
	"sint32": true,
	"sint64": true,
}

// Parse returns the fields of every message declared in the proto source,
// ordered by field number. Nested declarations are not supported.
func Parse(src string) (map[string][]Field, error) {
	src = lineComment.ReplaceAllString(src, "")
	src = fieldOpts.ReplaceAllString(src, "")

	enums := make(map[string]bool)
	for _, m := range block.FindAllStringSubmatch(src, -1) {
		if m[1] == "enum" {
			enums[m[2]] = true
		}
	}

	messages := make(map[string][]Field)
	for _, m := range block.FindAllStringSubmatch(src, -1) {
		if m[1] != "message" {
			continue
		}
		var fields []Field
		for _, stmt := range strings.Split(m[3], ";") {
			stmt = strings.Join(strings.Fields(stmt), " ")
			if stmt == "" {
				continue
			}
			d := fieldDecl.FindStringSubmatch(stmt)
			if d == nil {
				return nil, &ParseError{Message: m[2], Statement: stmt}
			}
			n, _ := strconv.Atoi(d[4])
			fields = append(fields, Field{
				Name:     d[3],
				Number:   n,
				Wire:     wireOf(d[2], enums),
				Repeated: d[1] != "",
			})
		}
		sort.Slice(fields, func(i, j int) bool { return fields[i].Number < fields[j].Number })
		messages[m[2]] = fields
	}
	return messages, nil
}

func wireOf(typ string, enums map[string]bool) string {
	if i := strings.LastIndexByte(typ, '.'); i >= 0 && enums[typ[i+1:]] {
		return "varint"
	}
	if varints[typ] || enums[typ] {
		return "varint"
	}
	return "bytes"
}

// ParseError reports a message statement that is not a field declaration.
type ParseError struct {
	Message   string
	Statement string
}

func (e *ParseError) Error() string {
	return "message " + e.Message + ": cannot parse " + strconv.Quote(e.Statement)
}

// Tags returns the fields declared by the protobuf struct tags of model,
// ordered by field number. Untagged fields are skipped.
func Tags(model interface{}) []Field {
	t := reflect.TypeOf(model)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	var fields []Field
	for i := 0; i < t.NumField(); i++ {
		tag, ok := t.Field(i).Tag.Lookup("protobuf")
		if !ok {
			continue
		}
		parts := strings.Split(tag, ",")
		f := Field{Wire: parts[0], Repeated: len(parts) > 2 && parts[2] == "rep"}
		f.Number, _ = strconv.Atoi(parts[1])
		for _, p := range parts[3:] {
			if strings.HasPrefix(p, "name=") {
				f.Name = strings.TrimPrefix(p, "name=")
			}
		}
		fields = append(fields, f)
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].Number < fields[j].Number })
	return fields
}

// AssertMatches fails the test unless the proto file at path declares a
// message for every model, named after its Go type and with the fields its
// struct tags encode.
func AssertMatches(t testing.TB, path string, models ...interface{}) {
	t.Helper()
	raw, err := ioutil.ReadFile(path)
	require.NoError(t, err)
	messages, err := Parse(string(raw))
	require.NoError(t, err)

	for _, m := range models {
		name := reflect.Indirect(reflect.ValueOf(m)).Type().Name()
		got, ok := messages[name]
		if !assert.True(t, ok, "%s: no message %s", path, name) {
			continue
		}
		assert.Equal(t, Tags(m), got, "%s: message %s", path, name)
	}
}
