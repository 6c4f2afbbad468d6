/*
Package mongodataset reads datasets from MongoDB collections and writes
them back.

Every document of a collection holds a sample, with a field for each
feature and label of the schema named after them.
*/
package mongodataset

import (
	"context"
	"fmt"
	"strings"

	"github.com/pbanos/bonsai/dataset"
	"github.com/pbanos/bonsai/feature"
	mgo "gopkg.in/mgo.v2"
	"gopkg.in/mgo.v2/bson"
)

/*
Read takes a context, a MongoDB database session, the name of a collection
on the default database for that session and a schema, and returns a dataset
with the samples in the collection, or an error if the collection cannot be
read or any of its documents lacks a numeric value for a column of the schema.
Documents are read in natural order.
*/
func Read(ctx context.Context, session *mgo.Session, collection string, schema *feature.Schema) (*dataset.Dataset, error) {
	if err := validateFieldNames(schema.Columns()); err != nil {
		return nil, err
	}
	d := dataset.New(schema)
	projection := bson.M{"_id": 0}
	for _, c := range schema.Columns() {
		projection[c] = 1
	}
	iter := session.DB("").C(collection).Find(nil).Select(projection).Iter()
	defer iter.Close()
	var doc bson.M
	for i := 0; iter.Next(&doc); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := docToRecord(doc, schema.Columns())
		if err != nil {
			return nil, fmt.Errorf("reading document %d: %v", i, err)
		}
		if err = d.AddRecord(record); err != nil {
			return nil, fmt.Errorf("reading document %d: %v", i, err)
		}
		doc = nil
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return d, nil
}

/*
Write takes a context, a MongoDB database session, the name of a collection
on the default database for that session and a dataset, and inserts a
document for each sample of the dataset in the collection. It returns the
number of samples written or an error.
*/
func Write(ctx context.Context, session *mgo.Session, collection string, d *dataset.Dataset) (int, error) {
	if err := validateFieldNames(d.Schema.Columns()); err != nil {
		return 0, err
	}
	if d.Count() == 0 {
		return 0, nil
	}
	docs := make([]interface{}, 0, d.Count())
	for i := 0; i < d.Count(); i++ {
		doc := make(bson.M)
		for c, v := range d.Record(i) {
			doc[c] = v
		}
		docs = append(docs, doc)
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	err := session.DB("").C(collection).Insert(docs...)
	if err != nil {
		return 0, err
	}
	return len(docs), nil
}

func docToRecord(doc bson.M, columns []string) (map[string]float64, error) {
	record := make(map[string]float64)
	for _, c := range columns {
		v, ok := doc[c]
		if !ok || v == nil {
			return nil, fmt.Errorf("no value for field %q", c)
		}
		f, err := toFloat(v)
		if err != nil {
			return nil, fmt.Errorf("field %q: %v", c, err)
		}
		record[c] = f
	}
	return record, nil
}

func toFloat(v interface{}) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case bool:
		if n {
			return 1, nil
		}
		return 0, nil
	}
	return 0, fmt.Errorf("value %v of type %T is not numeric", v, v)
}

func validateFieldNames(names []string) error {
	for _, name := range names {
		if name == "_id" {
			return fmt.Errorf("invalid field name %q: reserved collection field", "_id")
		}
		if strings.ContainsAny(name, ".$") {
			return fmt.Errorf("invalid field name %q: contains reserved characters %q or %q", name, ".", "$")
		}
	}
	return nil
}
