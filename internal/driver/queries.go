package driver

var IndexQueries = []string{
	"CREATE INDEX ON :Entity(name);",
	"CREATE INDEX ON :Run(uuid);",
}

const (
	SaveRunQuery = `
		MERGE (r:Run {uuid: $run_id})
		SET r.relation = $relation,
			r.method = $method,
			r.seed_query = $seed_query,
			r.outcome = $outcome,
			r.iterations = $iterations,
			r.created_at = $created_at
		RETURN r.uuid AS uuid
	`

	SaveRelationQuery = `
		MERGE (s:Entity {name: $subject})
		MERGE (o:Entity {name: $object})
		MERGE (s)-[e:RELATION {name: $relation, run_id: $run_id}]->(o)
		SET e.confidence = $confidence,
			e.scored = $scored,
			e.rank = $rank
		RETURN e.name AS name
	`

	ListRunRelationsQuery = `
		MATCH (s:Entity)-[e:RELATION {run_id: $run_id}]->(o:Entity)
		RETURN s.name AS subject, o.name AS object, e.confidence AS confidence, e.scored AS scored
		ORDER BY e.rank
	`
)
