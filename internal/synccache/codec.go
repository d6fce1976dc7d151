package synccache

import (
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func encodeSnapshot(v interface{}) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", errors.Wrap(err, "encode snapshot")
	}
	return string(data), nil
}

// decodeSnapshot unmarshals a cached snapshot into dest. A shape mismatch is
// treated as a transient-remote-class failure so malformed data never reaches
// a working set.
func decodeSnapshot(value string, dest interface{}) error {
	if err := json.Unmarshal([]byte(value), dest); err != nil {
		return errors.Wrapf(ErrRemoteUnavailable, "malformed snapshot: %v", err)
	}
	return nil
}

func validateRows[T Entity](rows []T) error {
	seen := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		id := row.EntityID()
		if id == "" {
			return errors.Wrap(ErrRemoteUnavailable, "row with empty identity")
		}
		if _, dup := seen[id]; dup {
			return errors.Wrapf(ErrRemoteUnavailable, "duplicate identity %s", id)
		}
		seen[id] = struct{}{}
	}
	return nil
}
