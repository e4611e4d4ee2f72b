package model

// SemanticCandidate is one scored tariff entry produced for a query. It is
// never persisted.
type SemanticCandidate struct {
	HTSCode       string
	Similarity    float64
	SourceChapter string
}

// RankedCode is one entry of a classification result's ranking.
type RankedCode struct {
	Code  string
	Score float64
}
