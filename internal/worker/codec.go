package worker

import (
	"encoding/json"
	"fmt"

	"roomledger/internal/core"
)

func decodeExpense(body []byte, id string, expense *core.Expense) error {
	if err := json.Unmarshal(body, expense); err != nil {
		return fmt.Errorf("decode expense %s: %w", id, err)
	}
	expense.ID = id
	return nil
}

func encodeRecord(v any) ([]byte, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode export record: %w", err)
	}
	return body, nil
}
