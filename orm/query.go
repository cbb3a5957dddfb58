package orm

import (
	"github.com/iov-one/barter"
)

// ConsumeIterator will read all remaining data into an
// array and close the iterator
func ConsumeIterator(itr barter.Iterator) ([]barter.Model, error) {
	defer itr.Close()

	var res []barter.Model
	for itr.Valid() {
		res = append(res, barter.Model{
			Key:   itr.Key(),
			Value: itr.Value(),
		})
		if err := itr.Next(); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// QueryPrefix returns all entries whose key starts with prefix.
func QueryPrefix(db barter.ReadOnlyKVStore, prefix []byte) ([]barter.Model, error) {
	itr, err := db.Iterator(prefix, prefixRangeEnd(prefix))
	if err != nil {
		return nil, err
	}
	return ConsumeIterator(itr)
}

// prefixRangeEnd returns the smallest key that is greater than all keys
// starting with prefix, or nil if there is none.
func prefixRangeEnd(prefix []byte) []byte {
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xFF {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}
