package utils

import (
	"encoding/json"

	"github.com/juju/errors"
)

func Serialize(o any) ([]byte, error) {
	b, err := json.Marshal(o)
	return b, errors.Trace(err)
}

func Unserialize(b []byte, o any) error {
	if len(b) == 0 {
		return errors.NotFoundf("empty payload")
	}
	return errors.Trace(json.Unmarshal(b, o))
}
