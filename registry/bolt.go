package registry

import (
	"encoding/json"
	"time"

	"github.com/siherrmann/vecstore/model"
	"go.etcd.io/bbolt"
)

var bucketDatabases = []byte("databases")

// BoltMetadataService persists database metadata in a bbolt file, so
// registered databases survive process restarts.
type BoltMetadataService struct {
	db *bbolt.DB
}

// NewBoltMetadataService opens (or creates) the bbolt file at path.
func NewBoltMetadataService(path string) (*BoltMetadataService, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketDatabases)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltMetadataService{db: db}, nil
}

func (s *BoltMetadataService) Put(info *model.DatabaseInfo) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketDatabases)
		data, err := json.Marshal(info)
		if err != nil {
			return err
		}
		return b.Put([]byte(info.Name), data)
	})
}

func (s *BoltMetadataService) Get(name string) (*model.DatabaseInfo, error) {
	var info *model.DatabaseInfo
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketDatabases)
		data := b.Get([]byte(name))
		if data == nil {
			return nil
		}
		info = &model.DatabaseInfo{}
		return json.Unmarshal(data, info)
	})
	if err != nil {
		return nil, err
	}
	return info, nil
}

func (s *BoltMetadataService) Delete(name string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketDatabases)
		return b.Delete([]byte(name))
	})
}

func (s *BoltMetadataService) List() ([]*model.DatabaseInfo, error) {
	infos := []*model.DatabaseInfo{}
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketDatabases)
		return b.ForEach(func(_, data []byte) error {
			info := &model.DatabaseInfo{}
			if err := json.Unmarshal(data, info); err != nil {
				return err
			}
			infos = append(infos, info)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return infos, nil
}

func (s *BoltMetadataService) Close() error {
	return s.db.Close()
}
