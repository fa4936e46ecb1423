package journal

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

const recordBucket = "receipts"

// Store defines the interface for record table operations
type Store interface {
	// Insert persists a new record and assigns its store-generated ID
	Insert(record *Record) (uint64, error)

	// Get retrieves a record by ID
	Get(id uint64) (*Record, error)

	// List returns all records in ID order
	List() ([]*Record, error)

	// Update overwrites an existing record
	Update(record *Record) error

	// ReplaceAll swaps the whole table for the given rows
	ReplaceAll(records []*Record) error
}

// BoltStore implements the Store interface using BoltDB. The database file is
// opened and closed within each operation, so no lock is held across the
// human review pause between extraction and save.
type BoltStore struct {
	path string
}

// NewBoltStore creates a BoltStore and ensures the file and bucket exist
func NewBoltStore(path string) (*BoltStore, error) {
	store := &BoltStore{path: path}

	db, err := store.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(recordBucket))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("creating bucket: %w", err)
	}
	return store, nil
}

func (s *BoltStore) open() (*bbolt.DB, error) {
	db, err := bbolt.Open(s.path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return db, nil
}

// Insert persists a new record under the next monotonic ID
func (s *BoltStore) Insert(record *Record) (uint64, error) {
	db, err := s.open()
	if err != nil {
		return 0, err
	}
	defer db.Close()

	err = db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(recordBucket))
		id, err := bucket.NextSequence()
		if err != nil {
			return fmt.Errorf("assigning id: %w", err)
		}
		record.ID = id
		data, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("marshaling record: %w", err)
		}
		return bucket.Put(itob(id), data)
	})
	if err != nil {
		return 0, err
	}
	return record.ID, nil
}

// Get retrieves a record by ID
func (s *BoltStore) Get(id uint64) (*Record, error) {
	db, err := s.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	var record *Record
	err = db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(recordBucket)).Get(itob(id))
		if data == nil {
			return fmt.Errorf("record not found: %d", id)
		}
		return json.Unmarshal(data, &record)
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// List returns all records in ascending ID order
func (s *BoltStore) List() ([]*Record, error) {
	db, err := s.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	records := make([]*Record, 0)
	err = db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(recordBucket))
		// Big-endian keys make ForEach yield ascending IDs
		return bucket.ForEach(func(k, v []byte) error {
			var record Record
			if err := json.Unmarshal(v, &record); err != nil {
				return fmt.Errorf("unmarshaling record: %w", err)
			}
			records = append(records, &record)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Update overwrites an existing record in place
func (s *BoltStore) Update(record *Record) error {
	if record.ID == 0 {
		return fmt.Errorf("record has no id")
	}

	db, err := s.open()
	if err != nil {
		return err
	}
	defer db.Close()

	return db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(recordBucket))
		if bucket.Get(itob(record.ID)) == nil {
			return fmt.Errorf("record not found: %d", record.ID)
		}
		data, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("marshaling record: %w", err)
		}
		return bucket.Put(itob(record.ID), data)
	})
}

// ReplaceAll swaps the whole table for the given rows, keeping their IDs and
// advancing the sequence past the largest one.
func (s *BoltStore) ReplaceAll(records []*Record) error {
	db, err := s.open()
	if err != nil {
		return err
	}
	defer db.Close()

	return db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket([]byte(recordBucket)); err != nil {
			return fmt.Errorf("clearing records: %w", err)
		}
		bucket, err := tx.CreateBucket([]byte(recordBucket))
		if err != nil {
			return fmt.Errorf("recreating bucket: %w", err)
		}

		var maxID uint64
		for _, record := range records {
			if record.ID == 0 {
				return fmt.Errorf("record has no id")
			}
			data, err := json.Marshal(record)
			if err != nil {
				return fmt.Errorf("marshaling record: %w", err)
			}
			if err := bucket.Put(itob(record.ID), data); err != nil {
				return err
			}
			if record.ID > maxID {
				maxID = record.ID
			}
		}
		return bucket.SetSequence(maxID)
	})
}

func itob(id uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, id)
	return b
}
