// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/pathway-go/internal/store"
)

// runStoreSuite exercises the Store contract against any backend.
func runStoreSuite(t *testing.T, newStore func(t *testing.T) Store) {
	ctx := context.Background()

	t.Run("insert and get", func(t *testing.T) {
		s := newStore(t)
		d, err := s.Insert(ctx, "destinations", Document{Slug: "new-zealand", Body: json.RawMessage(`{"country":"New Zealand","featured":true}`)}, false)
		require.NoError(t, err)
		require.NotEmpty(t, d.ID)
		assert.Zero(t, d.Seq)

		got, err := s.Get(ctx, "destinations", d.ID)
		require.NoError(t, err)
		assert.JSONEq(t, `{"country":"New Zealand","featured":true}`, string(got.Body))

		bySlug, err := s.GetBySlug(ctx, "destinations", "new-zealand")
		require.NoError(t, err)
		assert.Equal(t, d.ID, bySlug.ID)
	})

	t.Run("missing and malformed ids", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Get(ctx, "destinations", "not-an-id")
		assert.ErrorIs(t, err, store.ErrNotFound)
		_, err = s.GetBySlug(ctx, "destinations", "nowhere")
		assert.ErrorIs(t, err, store.ErrNotFound)
		_, err = s.GetBySeq(ctx, "awards", 42)
		assert.ErrorIs(t, err, store.ErrNotFound)
		assert.ErrorIs(t, s.Delete(ctx, "destinations", "zzz"), store.ErrNotFound)
	})

	t.Run("duplicate slug conflicts", func(t *testing.T) {
		s := newStore(t)
		first, err := s.Insert(ctx, "services", Document{Slug: "visa", Body: json.RawMessage(`{"name":"Visa"}`)}, false)
		require.NoError(t, err)

		_, err = s.Insert(ctx, "services", Document{Slug: "visa", Body: json.RawMessage(`{"name":"Other"}`)}, false)
		require.ErrorIs(t, err, store.ErrConflict)

		// same slug in another collection is fine
		_, err = s.Insert(ctx, "destinations", Document{Slug: "visa", Body: json.RawMessage(`{}`)}, false)
		require.NoError(t, err)

		got, err := s.Get(ctx, "services", first.ID)
		require.NoError(t, err)
		assert.JSONEq(t, `{"name":"Visa"}`, string(got.Body))
	})

	t.Run("replace onto taken slug conflicts", func(t *testing.T) {
		s := newStore(t)
		a, err := s.Insert(ctx, "posts", Document{Slug: "a", Body: json.RawMessage(`{"title":"A"}`)}, false)
		require.NoError(t, err)
		_, err = s.Insert(ctx, "posts", Document{Slug: "b", Body: json.RawMessage(`{"title":"B"}`)}, false)
		require.NoError(t, err)

		a.Slug = "b"
		_, err = s.Replace(ctx, "posts", a)
		require.ErrorIs(t, err, store.ErrConflict)

		a.Slug = "a2"
		a.Body = json.RawMessage(`{"title":"A2"}`)
		updated, err := s.Replace(ctx, "posts", a)
		require.NoError(t, err)
		assert.Equal(t, "a2", updated.Slug)
		assert.JSONEq(t, `{"title":"A2"}`, string(updated.Body))
	})

	t.Run("sequential ids", func(t *testing.T) {
		s := newStore(t)
		for want := int64(1); want <= 3; want++ {
			d, err := s.Insert(ctx, "awards", Document{Body: json.RawMessage(`{"title":"x"}`)}, true)
			require.NoError(t, err)
			assert.Equal(t, want, d.Seq)
		}
		other, err := s.Insert(ctx, "stats", Document{Body: json.RawMessage(`{}`)}, true)
		require.NoError(t, err)
		assert.Equal(t, int64(1), other.Seq)

		got, err := s.GetBySeq(ctx, "awards", 2)
		require.NoError(t, err)
		assert.Equal(t, int64(2), got.Seq)

		// deleting the max lets the next insert reuse max+1 of what remains
		top, err := s.GetBySeq(ctx, "awards", 3)
		require.NoError(t, err)
		require.NoError(t, s.Delete(ctx, "awards", top.ID))
		next, err := s.Insert(ctx, "awards", Document{Body: json.RawMessage(`{}`)}, true)
		require.NoError(t, err)
		assert.Equal(t, int64(3), next.Seq)
	})

	t.Run("concurrent sequential inserts get distinct ids", func(t *testing.T) {
		s := newStore(t)
		const n = 8
		var wg sync.WaitGroup
		seqs := make(chan int64, n)
		errs := make(chan error, n)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				d, err := s.Insert(ctx, "partners", Document{Body: json.RawMessage(`{}`)}, true)
				if err != nil {
					errs <- err
					return
				}
				seqs <- d.Seq
			}()
		}
		wg.Wait()
		close(seqs)
		close(errs)
		for err := range errs {
			t.Fatalf("insert: %v", err)
		}
		seen := map[int64]bool{}
		for s := range seqs {
			assert.False(t, seen[s], "duplicate seq %d", s)
			seen[s] = true
		}
		assert.Len(t, seen, n)
	})

	t.Run("find filters search sort paginate", func(t *testing.T) {
		s := newStore(t)
		bodies := []string{
			`{"name":"Alice Tan","active":true,"order":2}`,
			`{"name":"Bob Lee","active":false,"order":1}`,
			`{"name":"alicia Wong","active":true,"order":3}`,
		}
		for _, b := range bodies {
			_, err := s.Insert(ctx, "team_members", Document{Body: json.RawMessage(b)}, false)
			require.NoError(t, err)
		}

		active := Query{Equals: map[string]any{"active": true}, Sort: []SortField{{Field: "order"}}}
		docs, err := s.Find(ctx, "team_members", active)
		require.NoError(t, err)
		require.Len(t, docs, 2)
		assert.Contains(t, string(docs[0].Body), "Alice Tan")

		n, err := s.Count(ctx, "team_members", active)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)

		search := Query{Search: "ALIC", SearchFields: []string{"name"}}
		docs, err = s.Find(ctx, "team_members", search)
		require.NoError(t, err)
		assert.Len(t, docs, 2)

		page := Query{Sort: []SortField{{Field: "order"}}, Limit: 1, Offset: 1}
		docs, err = s.Find(ctx, "team_members", page)
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Contains(t, string(docs[0].Body), "Alice Tan")

		literal := Query{Search: "%", SearchFields: []string{"name"}}
		docs, err = s.Find(ctx, "team_members", literal)
		require.NoError(t, err)
		assert.Empty(t, docs)

		_, err = s.Find(ctx, "team_members", Query{Sort: []SortField{{Field: "x'); DROP"}}})
		assert.Error(t, err)
	})

	t.Run("singleton get or create", func(t *testing.T) {
		s := newStore(t)
		defaults := json.RawMessage(`{"siteName":"Pathway"}`)

		var wg sync.WaitGroup
		ids := make(chan string, 4)
		for i := 0; i < 4; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				d, err := s.Singleton(ctx, "system_settings", defaults)
				if err == nil {
					ids <- d.ID
				}
			}()
		}
		wg.Wait()
		close(ids)
		var first string
		count := 0
		for id := range ids {
			if first == "" {
				first = id
			}
			assert.Equal(t, first, id)
			count++
		}
		assert.Equal(t, 4, count)

		saved, err := s.SaveSingleton(ctx, "system_settings", json.RawMessage(`{"siteName":"Kiwi"}`))
		require.NoError(t, err)
		assert.Equal(t, first, saved.ID)

		again, err := s.Singleton(ctx, "system_settings", defaults)
		require.NoError(t, err)
		assert.JSONEq(t, `{"siteName":"Kiwi"}`, string(again.Body))

		n, err := s.Count(ctx, "system_settings", Query{})
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})

	t.Run("delete", func(t *testing.T) {
		s := newStore(t)
		d, err := s.Insert(ctx, "insights", Document{Slug: "x", Body: json.RawMessage(`{}`)}, false)
		require.NoError(t, err)
		require.NoError(t, s.Delete(ctx, "insights", d.ID))
		_, err = s.Get(ctx, "insights", d.ID)
		assert.True(t, errors.Is(err, store.ErrNotFound))
	})
}
