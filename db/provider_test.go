package db

import (
	"errors"
	"testing"
)

func providers(t *testing.T) map[string]DatabaseProvider {
	t.Helper()
	leveldb, err := NewLevelDBProvider(t.TempDir())
	if err != nil {
		t.Fatalf("NewLevelDBProvider failed: %v", err)
	}
	boltdb, err := NewBoltProvider(t.TempDir())
	if err != nil {
		t.Fatalf("NewBoltProvider failed: %v", err)
	}
	t.Cleanup(func() {
		leveldb.Close()
		boltdb.Close()
	})
	return map[string]DatabaseProvider{"leveldb": leveldb, "boltdb": boltdb}
}

func TestProviderCRUD(t *testing.T) {
	for name, provider := range providers(t) {
		t.Run(name, func(t *testing.T) {
			key := []byte("key")
			value := []byte("value")

			if _, err := provider.Get(key); !errors.Is(err, ErrKeyNotFound) {
				t.Errorf("expected ErrKeyNotFound, got %v", err)
			}
			if has, err := provider.Has(key); err != nil || has {
				t.Errorf("Has on empty db: has=%v err=%v", has, err)
			}

			if err := provider.Put(key, value); err != nil {
				t.Fatalf("Put failed: %v", err)
			}
			got, err := provider.Get(key)
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			if string(got) != string(value) {
				t.Errorf("expected %q, got %q", value, got)
			}
			if has, err := provider.Has(key); err != nil || !has {
				t.Errorf("Has after Put: has=%v err=%v", has, err)
			}

			if err := provider.Delete(key); err != nil {
				t.Fatalf("Delete failed: %v", err)
			}
			if _, err := provider.Get(key); !errors.Is(err, ErrKeyNotFound) {
				t.Errorf("expected ErrKeyNotFound after delete, got %v", err)
			}
			// deleting an absent key is fine
			if err := provider.Delete(key); err != nil {
				t.Errorf("Delete of absent key failed: %v", err)
			}
		})
	}
}

func TestProviderBatch(t *testing.T) {
	for name, provider := range providers(t) {
		t.Run(name, func(t *testing.T) {
			if err := provider.Put([]byte("drop"), []byte("me")); err != nil {
				t.Fatalf("Put failed: %v", err)
			}

			batch := provider.Batch()
			batch.Put([]byte("a"), []byte("1"))
			batch.Put([]byte("b"), []byte("2"))
			batch.Delete([]byte("drop"))
			if err := batch.Write(); err != nil {
				t.Fatalf("batch Write failed: %v", err)
			}

			for key, want := range map[string]string{"a": "1", "b": "2"} {
				got, err := provider.Get([]byte(key))
				if err != nil {
					t.Fatalf("Get(%s) failed: %v", key, err)
				}
				if string(got) != want {
					t.Errorf("key %s: expected %q, got %q", key, want, got)
				}
			}
			if _, err := provider.Get([]byte("drop")); !errors.Is(err, ErrKeyNotFound) {
				t.Errorf("batched delete did not apply: %v", err)
			}

			batch.Reset()
			if err := batch.Write(); err != nil {
				t.Errorf("empty batch Write failed: %v", err)
			}
		})
	}
}
