package spans

import (
	"github.com/Agenta-AI/agenta-sub003/internal/observability/model"
)

type TreeConstructorService struct {
}

func NewTreeConstructorService() *TreeConstructorService {
	return &TreeConstructorService{}
}

// ConstructForest groups the flat span list by trace and nests each span
// under its parent's name key. Spans whose declared parent is absent from
// the batch are skipped rather than failing the reconstruction; spans with
// no parent at all become roots.
func (tcs *TreeConstructorService) ConstructForest(spans []model.Span) []TraceTree {
	var traceOrder []string
	spansByTrace := make(map[string][]model.Span)
	for _, span := range spans {
		if _, ok := spansByTrace[span.TraceID]; !ok {
			traceOrder = append(traceOrder, span.TraceID)
		}
		spansByTrace[span.TraceID] = append(spansByTrace[span.TraceID], span)
	}

	trees := make([]TraceTree, 0, len(traceOrder))
	for _, traceID := range traceOrder {
		trees = append(trees, constructTree(traceID, spansByTrace[traceID]))
	}
	return trees
}

func constructTree(traceID string, spans []model.Span) TraceTree {
	present := make(map[string]bool, len(spans))
	for _, span := range spans {
		present[span.SpanID] = true
	}

	childrenByParent := make(map[string][]model.Span)
	var roots []model.Span
	for _, span := range spans {
		if span.ParentID == "" {
			roots = append(roots, span)
			continue
		}
		if !present[span.ParentID] {
			// Orphaned span: its parent is not part of the batch. It still
			// appears in flat listings, just not in the nested tree.
			continue
		}
		childrenByParent[span.ParentID] = append(childrenByParent[span.ParentID], span)
	}

	tree := TraceTree{
		TraceID: traceID,
		Spans:   make(map[string]*SpanNode, len(roots)),
	}
	for _, root := range roots {
		tree.Spans[root.Name] = constructNode(root, childrenByParent)
	}
	return tree
}

func constructNode(span model.Span, childrenByParent map[string][]model.Span) *SpanNode {
	node := &SpanNode{Span: span}
	children := childrenByParent[span.SpanID]
	if len(children) == 0 {
		return node
	}
	node.Spans = make(map[string]*SpanNode, len(children))
	for _, child := range children {
		node.Spans[child.Name] = constructNode(child, childrenByParent)
	}
	return node
}
