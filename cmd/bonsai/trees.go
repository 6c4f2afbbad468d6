package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/pbanos/bonsai/tree"
	"github.com/pbanos/bonsai/tree/json"
	"github.com/pbanos/bonsai/tree/redisstore"
	"gopkg.in/redis.v5"
)

const (
	treeLocationUsage = "path to a JSON file or redis://[:password@]host:port/name URL"
	redisKeyPrefix    = "bonsai:trees"
)

/*
loadTree takes a context and the location of a tree, either a path to a
JSON file or a redis URL naming a stored tree, and returns the tree.
*/
func loadTree(ctx context.Context, location string) (*tree.Tree, error) {
	if strings.HasPrefix(location, "redis://") {
		store, name, err := redisStore(location)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		return store.Load(ctx, name)
	}
	f, err := os.Open(location)
	if err != nil {
		return nil, fmt.Errorf("reading tree in JSON from %s: %v", location, err)
	}
	defer f.Close()
	t, err := json.ReadJSONTree(f)
	if err != nil {
		err = fmt.Errorf("parsing tree in JSON from %s: %v", location, err)
	}
	return t, err
}

/*
outputTree takes a context, the location for a tree and a tree and writes
the tree as JSON to the location: STDOUT when empty, a file or a redis URL.
Trees output to a redis URL with no name get a random one. It returns a
description of where the tree ended up.
*/
func outputTree(ctx context.Context, location string, t *tree.Tree) (string, error) {
	if strings.HasPrefix(location, "redis://") {
		store, name, err := redisStore(location)
		if err != nil {
			return "", err
		}
		defer store.Close()
		name, err = store.Save(ctx, name, t)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("redis tree %s", name), nil
	}
	if location == "" {
		return "STDOUT", json.WriteJSONTree(os.Stdout, t)
	}
	f, err := os.Create(location)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return location, json.WriteJSONTree(f, t)
}

func redisStore(location string) (*redisstore.Store, string, error) {
	u, err := url.Parse(location)
	if err != nil {
		return nil, "", fmt.Errorf("parsing redis URL: %v", err)
	}
	opts := &redis.Options{Addr: u.Host}
	if u.User != nil {
		opts.Password, _ = u.User.Password()
	}
	return redisstore.New(redis.NewClient(opts), redisKeyPrefix), strings.TrimPrefix(u.Path, "/"), nil
}
