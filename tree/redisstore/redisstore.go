/*
Package redisstore keeps serialized trees in a redis DB so that
several processes can grow, prune and serve the same trees.
*/
package redisstore

import (
	"bytes"
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pbanos/bonsai/tree"
	"github.com/pbanos/bonsai/tree/json"
	"gopkg.in/redis.v5"
)

// ErrTreeNotFound is returned when loading a tree under a name
// that holds no tree.
const ErrTreeNotFound = storeError("tree not found")

type storeError string

func (se storeError) Error() string {
	return string(se)
}

/*
Store saves trees encoded as JSON under keys made of a prefix
and the name of each tree.
*/
type Store struct {
	rc     *redis.Client
	prefix string
}

// New builds a Store backed by a redis DB
func New(rc *redis.Client, prefix string) *Store {
	return &Store{rc, prefix}
}

/*
Save takes a context, a name and a tree and stores the tree under the name,
overwriting whatever was stored under it. If the name is empty, a new random
name that no other tree uses is generated. The name the tree was stored under
is returned, along with an error if the tree could not be stored.
*/
func (s *Store) Save(ctx context.Context, name string, t *tree.Tree) (string, error) {
	buf := &bytes.Buffer{}
	if err := json.WriteJSONTree(buf, t); err != nil {
		return "", fmt.Errorf("saving tree: encoding tree: %v", err)
	}
	data := buf.Bytes()
	if name != "" {
		_, err := s.rc.Set(s.keyFor(name), data, 0).Result()
		if err != nil {
			return "", fmt.Errorf("saving tree %q in redis: %v", name, err)
		}
		return name, nil
	}
	var ok bool
	for !ok {
		name = uuid.NewString()
		var err error
		ok, err = s.rc.SetNX(s.keyFor(name), data, 0).Result()
		if err != nil {
			return "", fmt.Errorf("saving tree in redis: %v", err)
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
	}
	return name, nil
}

// Load takes a context and a name and returns the tree stored under the
// name, ErrTreeNotFound if there is none or any other error retrieving it.
func (s *Store) Load(ctx context.Context, name string) (*tree.Tree, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := s.rc.Get(s.keyFor(name)).Bytes()
	if err == redis.Nil {
		return nil, ErrTreeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading tree %q: %v", name, err)
	}
	t, err := json.ReadJSONTree(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("loading tree %q: decoding: %v", name, err)
	}
	return t, nil
}

// Delete removes the tree stored under the given name, if any
func (s *Store) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.rc.Del(s.keyFor(name)).Result()
	if err != nil {
		return fmt.Errorf("deleting tree %q from redis: %v", name, err)
	}
	return nil
}

// Close closes the redis client of the store
func (s *Store) Close() error {
	return s.rc.Close()
}

func (s *Store) keyFor(name string) string {
	return fmt.Sprintf("%s:%s", s.prefix, name)
}
