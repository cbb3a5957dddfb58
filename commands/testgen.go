/*
Package commands holds the building blocks of the node binary that do not
depend on a running application.
*/
package commands

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/iov-one/barter"
	"github.com/iov-one/barter/errors"
)

// Example will be written out to a file, .json and .bin
// Filename should have no path and no extension
type Example struct {
	Filename string
	Obj      barter.Marshaller
}

// TestGenCmd generates sample protobuf and json encodings
// of various objects to test against.
func TestGenCmd(examples []Example, args []string) error {
	outdir := "testdata"
	if len(args) > 0 {
		outdir = args[0]
	}
	err := os.MkdirAll(outdir, 0755)
	if err != nil {
		return errors.Wrap(err, "output directory")
	}

	for _, ex := range examples {
		// write json data
		js, err := json.Marshal(ex.Obj)
		if err != nil {
			return errors.Wrapf(err, "json %s", ex.Filename)
		}
		jsFile := filepath.Join(outdir, ex.Filename+".json")
		err = ioutil.WriteFile(jsFile, js, 0644)
		if err != nil {
			return err
		}

		// write binary data
		bin, err := ex.Obj.Marshal()
		if err != nil {
			return errors.Wrapf(err, "marshal %s", ex.Filename)
		}
		binFile := filepath.Join(outdir, ex.Filename+".bin")
		err = ioutil.WriteFile(binFile, bin, 0644)
		if err != nil {
			return err
		}
	}
	return nil
}
