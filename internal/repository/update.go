package repository

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// UpdateCommand is a typed partial-update description. Instead of passing
// store-specific query documents around, callers build a command from the
// explicit operations SetFields, AppendToSet and RemoveFromSet, and the
// repository translates it into a single field-scoped UPDATE, so
// concurrent mutations of different fields (or set elements) never
// overwrite each other.
type UpdateCommand struct {
	ops []fieldOp
}

type opKind int

const (
	opSet opKind = iota
	opAppend
	opRemove
)

type fieldOp struct {
	kind  opKind
	field string
	value interface{}
}

func NewUpdate() *UpdateCommand {
	return &UpdateCommand{}
}

// SetFields overwrites whole fields. Keys are column names; they are
// applied in sorted order so the generated SQL is deterministic.
func (c *UpdateCommand) SetFields(fields map[string]interface{}) *UpdateCommand {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		c.ops = append(c.ops, fieldOp{kind: opSet, field: name, value: fields[name]})
	}
	return c
}

// AppendToSet adds a value to a set-valued field if it is not already
// present. For text-array fields the value is a single element; for the
// jsonb denylist it is a slice of entries, each added independently.
func (c *UpdateCommand) AppendToSet(field string, value interface{}) *UpdateCommand {
	c.ops = append(c.ops, fieldOp{kind: opAppend, field: field, value: value})
	return c
}

// RemoveFromSet removes a single value from a set-valued field.
func (c *UpdateCommand) RemoveFromSet(field string, value interface{}) *UpdateCommand {
	c.ops = append(c.ops, fieldOp{kind: opRemove, field: field, value: value})
	return c
}

func (c *UpdateCommand) Empty() bool {
	return c == nil || len(c.ops) == 0
}

type fieldKind int

const (
	fieldScalar fieldKind = iota
	fieldTextArray
	fieldJSONBArray
)

// buildUpdateSQL renders a command into one UPDATE statement against the
// given table. allowed whitelists the updatable columns along with their
// kind; an op referencing any other column is rejected.
func buildUpdateSQL(table, idColumn, id string, allowed map[string]fieldKind, cmd *UpdateCommand) (string, []interface{}, error) {
	if cmd.Empty() {
		return "", nil, fmt.Errorf("empty update command for table %s", table)
	}

	sets := []string{"updated_at = NOW()"}
	args := []interface{}{id}

	for _, op := range cmd.ops {
		kind, ok := allowed[op.field]
		if !ok {
			return "", nil, fmt.Errorf("field %q is not updatable on table %s", op.field, table)
		}

		clause, arg, err := renderOp(op, kind)
		if err != nil {
			return "", nil, err
		}

		args = append(args, arg)
		sets = append(sets, fmt.Sprintf(clause, op.field, len(args)))
	}

	query := fmt.Sprintf(
		"UPDATE %s SET %s WHERE %s = $1 RETURNING *",
		table, strings.Join(sets, ", "), idColumn,
	)

	return query, args, nil
}

// renderOp returns a SET clause template with two verbs: the column name
// and the positional-argument index.
func renderOp(op fieldOp, kind fieldKind) (string, interface{}, error) {
	switch op.kind {
	case opSet:
		return "%[1]s = $%[2]d", op.value, nil

	case opAppend:
		switch kind {
		case fieldTextArray:
			return "%[1]s = (CASE WHEN $%[2]d = ANY(%[1]s) THEN %[1]s ELSE array_append(%[1]s, $%[2]d) END)", op.value, nil
		case fieldJSONBArray:
			raw, err := json.Marshal(op.value)
			if err != nil {
				return "", nil, fmt.Errorf("marshaling jsonb append value: %w", err)
			}
			// Append only the entries not already contained, in one
			// atomic statement.
			clause := "%[1]s = %[1]s || COALESCE((SELECT jsonb_agg(entry) FROM jsonb_array_elements($%[2]d::jsonb) AS entry WHERE NOT %[1]s @> jsonb_build_array(entry)), '[]'::jsonb)"
			return clause, string(raw), nil
		default:
			return "", nil, fmt.Errorf("field %q is not a set field", op.field)
		}

	case opRemove:
		if kind != fieldTextArray {
			return "", nil, fmt.Errorf("field %q is not a text-array field", op.field)
		}
		return "%[1]s = array_remove(%[1]s, $%[2]d)", op.value, nil
	}

	return "", nil, fmt.Errorf("unknown op kind %d", op.kind)
}
