package models

// Pairing is a derived value for the next round and is never persisted.
type Pairing struct {
	Player1ID   int    `json:"id1"`
	Player1Name string `json:"name1"`
	Player2ID   int    `json:"id2"`
	Player2Name string `json:"name2"`
}
