package filtering

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// maxNestingDepth bounds the recursion of the filter tree.
const maxNestingDepth = 64

type operatorFamily int

const (
	familyUnknown operatorFamily = iota
	familyComparison
	familyNumeric
	familyString
	familyList
	familyExistence
	familyDict
)

func familyOf(operator Operator) operatorFamily {
	switch operator {
	case OperatorIs, OperatorIsNot:
		return familyComparison
	case OperatorEq, OperatorNeq, OperatorGt, OperatorLt, OperatorGte, OperatorLte:
		return familyNumeric
	case OperatorStartsWith, OperatorEndsWith, OperatorContains, OperatorLike, OperatorMatches:
		return familyString
	case OperatorIn, OperatorNotIn:
		return familyList
	case OperatorExists, OperatorNotExists:
		return familyExistence
	case OperatorHas, OperatorHasNot:
		return familyDict
	default:
		return familyUnknown
	}
}

type fieldKind int

const (
	kindIdentifier fieldKind = iota
	kindEnum
	kindString
	kindTimestamp
	kindAttributes
	kindMarshalledList
	kindFreeText
)

type fieldSpec struct {
	path     string
	kind     fieldKind
	families map[operatorFamily]bool
}

func families(list ...operatorFamily) map[operatorFamily]bool {
	allowed := make(map[operatorFamily]bool, len(list))
	for _, family := range list {
		allowed[family] = true
	}
	return allowed
}

// fieldTable is the static dispatch table of the compiler: document path,
// field category, and the operator families the category admits.
var fieldTable = map[Field]fieldSpec{
	FieldTraceID:     {path: "trace_id", kind: kindIdentifier, families: families(familyComparison, familyList)},
	FieldSpanID:      {path: "span_id", kind: kindIdentifier, families: families(familyComparison, familyList)},
	FieldParentID:    {path: "parent_id", kind: kindIdentifier, families: families(familyComparison, familyList)},
	FieldCreatedByID: {path: "created_by_id", kind: kindIdentifier, families: families(familyComparison, familyList)},
	FieldUpdatedByID: {path: "updated_by_id", kind: kindIdentifier, families: families(familyComparison, familyList)},
	FieldDeletedByID: {path: "deleted_by_id", kind: kindIdentifier, families: families(familyComparison, familyList)},

	FieldTraceType:  {path: "trace_type", kind: kindEnum, families: families(familyComparison, familyList)},
	FieldSpanType:   {path: "span_type", kind: kindEnum, families: families(familyComparison, familyList)},
	FieldStatusCode: {path: "status_code", kind: kindEnum, families: families(familyComparison, familyList)},

	FieldName:          {path: "name", kind: kindString, families: families(familyComparison, familyString, familyList, familyExistence)},
	FieldStatusMessage: {path: "status_message", kind: kindString, families: families(familyComparison, familyString, familyList, familyExistence)},

	FieldStartTime: {path: "start_time", kind: kindTimestamp, families: families(familyComparison, familyNumeric, familyString, familyList)},
	FieldEndTime:   {path: "end_time", kind: kindTimestamp, families: families(familyComparison, familyNumeric, familyString, familyList)},
	FieldCreatedAt: {path: "created_at", kind: kindTimestamp, families: families(familyComparison, familyNumeric, familyString, familyList)},
	FieldUpdatedAt: {path: "updated_at", kind: kindTimestamp, families: families(familyComparison, familyNumeric, familyString, familyList)},
	FieldDeletedAt: {path: "deleted_at", kind: kindTimestamp, families: families(familyComparison, familyNumeric, familyString, familyList)},

	FieldAttributes: {path: "attributes", kind: kindAttributes, families: families(familyComparison, familyNumeric, familyString, familyList, familyExistence)},

	FieldLinks:      {path: "links", kind: kindMarshalledList, families: families(familyList, familyDict)},
	FieldReferences: {path: "references", kind: kindMarshalledList, families: families(familyList, familyDict)},
	FieldEvents:     {path: "events", kind: kindMarshalledList, families: families(familyList, familyDict)},

	FieldContent: {path: "", kind: kindFreeText, families: nil},
}

// FilterCompiler turns a filter tree into an Elasticsearch bool-query
// fragment. It holds no mutable state and is safe for concurrent use.
type FilterCompiler struct {
	logger *zap.Logger
}

func NewFilterCompiler(logger *zap.Logger) *FilterCompiler {
	return &FilterCompiler{logger: logger}
}

// Compile returns the query fragment for the tree, or nil when the tree is
// empty or every clause was skipped. The only error type returned is
// *FilteringError.
func (fc *FilterCompiler) Compile(tree *Filtering) (map[string]interface{}, error) {
	if tree == nil || len(tree.Conditions) == 0 {
		return nil, nil
	}
	return fc.compileLogical(tree, 0)
}

func (fc *FilterCompiler) compileLogical(tree *Filtering, depth int) (map[string]interface{}, error) {
	if depth >= maxNestingDepth {
		return nil, &FilteringError{Reason: "maximum nesting depth exceeded"}
	}

	operator := tree.Operator
	if operator == "" {
		operator = LogicalAnd
	}

	var children []map[string]interface{}
	for _, node := range tree.Conditions {
		var clause map[string]interface{}
		var err error
		switch {
		case node.Logical != nil:
			clause, err = fc.compileLogical(node.Logical, depth+1)
		case node.Condition != nil:
			clause, err = fc.compileCondition(*node.Condition)
		default:
			continue
		}
		if err != nil {
			return nil, err
		}
		if clause == nil {
			continue
		}
		children = append(children, clause)
	}

	if operator == LogicalNot && len(tree.Conditions) != 1 {
		return nil, &FilteringError{Reason: "not requires exactly one child"}
	}
	if len(children) == 0 {
		return nil, nil
	}

	switch operator {
	case LogicalAnd:
		return boolMust(children), nil
	case LogicalOr:
		return boolShould(children), nil
	case LogicalNot:
		return mustNot(children[0]), nil
	case LogicalNand:
		return mustNot(boolMust(children)), nil
	case LogicalNor:
		return mustNot(boolShould(children)), nil
	default:
		return nil, &FilteringError{Reason: fmt.Sprintf("unknown logical operator %q", operator)}
	}
}

func (fc *FilterCompiler) compileCondition(condition Condition) (map[string]interface{}, error) {
	spec, ok := fieldTable[condition.Field]
	if !ok {
		return nil, newUnknownFieldError(condition.Field)
	}

	if spec.kind == kindFreeText {
		return compileFreeText(condition), nil
	}

	family := familyOf(condition.Operator)
	if family == familyUnknown || !spec.families[family] {
		// Forward-compatible DSL extensions degrade the filter instead of
		// failing the whole query.
		fc.logger.Warn(
			"Skipping unsupported field/operator combination",
			zap.String("field", string(condition.Field)),
			zap.String("operator", string(condition.Operator)),
		)
		return nil, nil
	}

	path := spec.path
	if spec.kind == kindAttributes && condition.Key != "" {
		path = spec.path + "." + condition.Key
	}
	options := condition.Options
	if options == nil {
		options = &ConditionOptions{}
	}

	switch family {
	case familyComparison:
		return compileComparison(path, condition.Operator, condition.Value, options), nil
	case familyNumeric:
		return compileNumeric(path, condition.Operator, condition.Value), nil
	case familyString:
		return compileString(path, condition.Operator, condition.Value, options), nil
	case familyList:
		if spec.kind == kindMarshalledList {
			return compileEntryList(path, condition.Operator, condition.Value, options), nil
		}
		return compileList(path, condition.Operator, condition.Value), nil
	case familyExistence:
		return compileExistence(path, condition.Operator), nil
	case familyDict:
		return compileDict(path, condition.Operator, condition.Value), nil
	default:
		return nil, nil
	}
}

func compileComparison(path string, operator Operator, value interface{}, options *ConditionOptions) map[string]interface{} {
	clause := term(path, value, options)
	if operator == OperatorIsNot {
		return mustNot(clause)
	}
	return clause
}

func compileNumeric(path string, operator Operator, value interface{}) map[string]interface{} {
	switch operator {
	case OperatorEq:
		return term(path, value, &ConditionOptions{CaseSensitive: true})
	case OperatorNeq:
		return mustNot(term(path, value, &ConditionOptions{CaseSensitive: true}))
	default:
		return map[string]interface{}{
			"range": map[string]interface{}{
				path: map[string]interface{}{
					string(operator): value,
				},
			},
		}
	}
}

func compileString(path string, operator Operator, value interface{}, options *ConditionOptions) map[string]interface{} {
	text := fmt.Sprintf("%v", value)
	switch operator {
	case OperatorStartsWith:
		return stringQuery("prefix", path, text, options)
	case OperatorEndsWith:
		return stringQuery("wildcard", path, "*"+text, options)
	case OperatorContains:
		if options.Exact {
			return term(path, value, options)
		}
		return stringQuery("wildcard", path, "*"+text+"*", options)
	case OperatorLike:
		return stringQuery("wildcard", path, strings.ReplaceAll(text, "%", "*"), options)
	case OperatorMatches:
		return stringQuery("regexp", path, text, options)
	default:
		return nil
	}
}

func compileList(path string, operator Operator, value interface{}) map[string]interface{} {
	clause := map[string]interface{}{
		"terms": map[string]interface{}{
			path: asList(value),
		},
	}
	if operator == OperatorNotIn {
		return mustNot(clause)
	}
	return clause
}

// compileEntryList matches marshalled list fields (links, references,
// events) by whole-entry containment rather than key-path traversal.
func compileEntryList(path string, operator Operator, value interface{}, options *ConditionOptions) map[string]interface{} {
	entries := asList(value)
	clauses := make([]map[string]interface{}, 0, len(entries))
	for _, entry := range entries {
		clauses = append(clauses, entryClause(path, entry))
	}
	var combined map[string]interface{}
	if options.All {
		combined = boolMust(clauses)
	} else {
		combined = boolShould(clauses)
	}
	if operator == OperatorNotIn {
		return mustNot(combined)
	}
	return combined
}

func compileExistence(path string, operator Operator) map[string]interface{} {
	clause := map[string]interface{}{
		"exists": map[string]interface{}{
			"field": path,
		},
	}
	if operator == OperatorNotExists {
		return mustNot(clause)
	}
	return clause
}

func compileDict(path string, operator Operator, value interface{}) map[string]interface{} {
	clause := entryClause(path, value)
	if operator == OperatorHasNot {
		return mustNot(clause)
	}
	return clause
}

// compileFreeText searches the serialized attribute bag regardless of the
// operator supplied.
func compileFreeText(condition Condition) map[string]interface{} {
	return map[string]interface{}{
		"query_string": map[string]interface{}{
			"query":            fmt.Sprintf("%v", condition.Value),
			"default_operator": "AND",
		},
	}
}

func entryClause(path string, entry interface{}) map[string]interface{} {
	fields, ok := entry.(map[string]interface{})
	if !ok {
		return term(path, entry, &ConditionOptions{CaseSensitive: true})
	}
	return boolMust(entryTerms(path, fields))
}

// entryTerms flattens nested entry maps into dotted term paths. References
// are persisted keyed by relation name, so an entry like
// {"application": {"id": "x"}} must address references.application.id;
// pre-flattened keys like "application.id" work the same way.
func entryTerms(path string, fields map[string]interface{}) []map[string]interface{} {
	clauses := make([]map[string]interface{}, 0, len(fields))
	for key, value := range fields {
		if nested, ok := value.(map[string]interface{}); ok {
			clauses = append(clauses, entryTerms(path+"."+key, nested)...)
			continue
		}
		clauses = append(clauses, term(path+"."+key, value, &ConditionOptions{CaseSensitive: true}))
	}
	return clauses
}

func term(path string, value interface{}, options *ConditionOptions) map[string]interface{} {
	body := map[string]interface{}{
		"value": value,
	}
	if _, isText := value.(string); isText && !options.CaseSensitive {
		body["case_insensitive"] = true
	}
	return map[string]interface{}{
		"term": map[string]interface{}{
			path: body,
		},
	}
}

func stringQuery(queryType string, path string, value string, options *ConditionOptions) map[string]interface{} {
	body := map[string]interface{}{
		"value": value,
	}
	if !options.CaseSensitive {
		body["case_insensitive"] = true
	}
	return map[string]interface{}{
		queryType: map[string]interface{}{
			path: body,
		},
	}
}

func boolMust(clauses []map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"bool": map[string]interface{}{
			"must": clauses,
		},
	}
}

func boolShould(clauses []map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"bool": map[string]interface{}{
			"should":               clauses,
			"minimum_should_match": 1,
		},
	}
}

func mustNot(clause map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"bool": map[string]interface{}{
			"must_not": []map[string]interface{}{clause},
		},
	}
}

func asList(value interface{}) []interface{} {
	if list, ok := value.([]interface{}); ok {
		return list
	}
	if value == nil {
		return nil
	}
	return []interface{}{value}
}
