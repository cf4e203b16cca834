package bootstrapper

const SpanIndexName = "span_index"

var spanIndex = map[string]interface{}{
	"settings": map[string]interface{}{
		"number_of_shards":   1,
		"number_of_replicas": 1,
	},
	"mappings": map[string]interface{}{
		"properties": map[string]interface{}{
			"created_at": map[string]interface{}{
				"type": "date",
			},
			"trace_id": map[string]interface{}{
				"type": "keyword",
			},
			"span_id": map[string]interface{}{
				"type": "keyword",
			},
			"parent_id": map[string]interface{}{
				"type": "keyword",
			},
			"trace_type": map[string]interface{}{
				"type": "keyword",
			},
			"span_type": map[string]interface{}{
				"type": "keyword",
			},
			"name": map[string]interface{}{
				"type": "keyword",
			},
			"kind": map[string]interface{}{
				"type": "keyword",
			},
			"start_time": map[string]interface{}{
				"type": "date",
			},
			"end_time": map[string]interface{}{
				"type": "date",
			},
			"status_code": map[string]interface{}{
				"type": "keyword",
			},
			"status_message": map[string]interface{}{
				"type": "keyword",
			},
			"attributes": map[string]interface{}{
				"type":    "object",
				"dynamic": true,
			},
			"events": map[string]interface{}{
				"properties": map[string]interface{}{
					"name": map[string]interface{}{
						"type": "keyword",
					},
					"timestamp": map[string]interface{}{
						"type": "date",
					},
				},
			},
			"exception": map[string]interface{}{
				"properties": map[string]interface{}{
					"message": map[string]interface{}{
						"type": "text",
					},
					"type": map[string]interface{}{
						"type": "keyword",
					},
					"stacktrace": map[string]interface{}{
						"type": "text",
					},
				},
			},
			"links": map[string]interface{}{
				"properties": map[string]interface{}{
					"trace_id": map[string]interface{}{
						"type": "keyword",
					},
					"span_id": map[string]interface{}{
						"type": "keyword",
					},
					"type": map[string]interface{}{
						"type": "keyword",
					},
				},
			},
			"references": map[string]interface{}{
				"type":    "object",
				"dynamic": true,
			},
			"hash": map[string]interface{}{
				"type": "keyword",
			},
		},
	},
}
