package spans

import (
	"github.com/Agenta-AI/agenta-sub003/internal/query_server/service/windowing"
)

func getSpansQuery(
	filter map[string]interface{},
	plan windowing.Plan,
	order string,
) map[string]interface{} {
	mustClauses := []map[string]interface{}{
		{
			"range": map[string]interface{}{
				"start_time": map[string]interface{}{
					"gte": plan.Oldest,
					"lt":  plan.Newest,
				},
			},
		},
	}
	if filter != nil {
		mustClauses = append(mustClauses, filter)
	}

	if order == "" {
		order = "desc"
	}

	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": mustClauses,
			},
		},
		"sort": []map[string]interface{}{
			{
				"start_time": map[string]interface{}{
					"order": order,
				},
			},
		},
	}
}
