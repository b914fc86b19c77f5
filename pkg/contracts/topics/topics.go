package topics

const (
	// Apostas
	BetPlaced    = "bet_placed"
	BetPlacedDLQ = "bet_placed_dlq"

	// Resultados
	ResultPublished    = "result_published"
	ResultPublishedDLQ = "result_published_dlq"
)
