/*
Package yaml provides methods to parse feature.Schema specifications
also known as metadata, from YAML documents.
*/
package yaml

import (
	"fmt"
	"io/ioutil"

	"github.com/pbanos/bonsai/feature"
	yaml "gopkg.in/yaml.v2"
)

/*
ReadSchema takes a slice of bytes with a schema specification in YML and
returns the schema parsed from it or an error.
The YML is expected to be an object containing a features property and a
labels property, both lists with the names of the corresponding columns:

	features:
	  - sepal_length
	  - sepal_width
	labels:
	  - species
*/
func ReadSchema(md []byte) (*feature.Schema, error) {
	schema := &feature.Schema{}
	err := yaml.UnmarshalStrict(md, schema)
	if err != nil {
		return nil, fmt.Errorf("parsing yml schema: %v", err)
	}
	if err = schema.Validate(); err != nil {
		return nil, err
	}
	return schema, nil
}

/*
ReadSchemaFromFile takes a filepath string, reads its contents and uses
ReadSchema to parse it and return the parsed schema or an error.
If the file indicated by the filepath cannot be opened for reading an error
will be returned.
*/
func ReadSchemaFromFile(filepath string) (*feature.Schema, error) {
	md, err := ioutil.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("reading schema yml file %s: %v", filepath, err)
	}
	schema, err := ReadSchema(md)
	if err != nil {
		err = fmt.Errorf("parsing schema yml file %s: %v", filepath, err)
	}
	return schema, err
}
