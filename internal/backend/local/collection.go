package local

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mtran/volunteer-hub/internal/backend"
	"github.com/mtran/volunteer-hub/internal/store"
)

// collection adapts one durable store key to the backend.Collection
// contract. Records are kept as a single serialized JSON array.
type collection struct {
	st  store.Store
	key string
}

func (c *collection) List(ctx context.Context) ([]backend.Record, bool, error) {
	data, exists, err := c.st.Read(ctx, c.key)
	if err != nil {
		return nil, false, err
	}
	if !exists {
		return nil, false, nil
	}

	var records []backend.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, false, fmt.Errorf("decoding collection %q: %w", c.key, err)
	}
	return records, true, nil
}

func (c *collection) Replace(ctx context.Context, records []backend.Record) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encoding collection %q: %w", c.key, err)
	}
	return c.st.Write(ctx, c.key, data)
}

func (c *collection) Insert(ctx context.Context, rec backend.Record) error {
	records, _, err := c.List(ctx)
	if err != nil {
		return err
	}
	// Newest first.
	records = append([]backend.Record{rec}, records...)
	return c.Replace(ctx, records)
}

func (c *collection) Update(ctx context.Context, id string, rec backend.Record) error {
	records, _, err := c.List(ctx)
	if err != nil {
		return err
	}
	for i := range records {
		var probe struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(records[i], &probe); err != nil {
			return fmt.Errorf("decoding record in %q: %w", c.key, err)
		}
		if probe.ID == id {
			records[i] = rec
			return c.Replace(ctx, records)
		}
	}
	return fmt.Errorf("record %s not found in collection %q", id, c.key)
}

func (c *collection) Delete(ctx context.Context, id string) error {
	records, _, err := c.List(ctx)
	if err != nil {
		return err
	}
	for i := range records {
		var probe struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(records[i], &probe); err != nil {
			return fmt.Errorf("decoding record in %q: %w", c.key, err)
		}
		if probe.ID == id {
			return c.Replace(ctx, append(records[:i:i], records[i+1:]...))
		}
	}
	return fmt.Errorf("record %s not found in collection %q", id, c.key)
}
