// Package datasets loads evaluation cases and seed payloads from disk.
package datasets

import (
	"context"

	"github.com/apache/arrow/go/v13/arrow/array"
	"github.com/apache/arrow/go/v13/arrow/memory"
	"github.com/apache/arrow/go/v13/parquet/file"
	"github.com/apache/arrow/go/v13/parquet/pqarrow"

	"github.com/XiaoConstantine/shinka-go/pkg/errors"
	"github.com/XiaoConstantine/shinka-go/pkg/fitness"
)

// LoadCasesParquet reads evaluation cases from a Parquet file, taking case
// inputs from the inputField column and expected answers from answerField.
// Both columns must hold strings.
func LoadCasesParquet(ctx context.Context, path, inputField, answerField string) ([]fitness.Case, error) {
	reader, err := file.OpenParquetFile(path, false)
	if err != nil {
		return nil, errors.WithFields(
			errors.Wrap(err, errors.ResourceNotFound, "failed to open Parquet file"),
			errors.Fields{"path": path})
	}
	defer reader.Close()

	arrowReader, err := pqarrow.NewFileReader(reader, pqarrow.ArrowReadProperties{}, memory.DefaultAllocator)
	if err != nil {
		return nil, errors.WithFields(
			errors.Wrap(err, errors.InvalidInput, "failed to create Arrow reader"),
			errors.Fields{"path": path})
	}

	schema, err := arrowReader.Schema()
	if err != nil {
		return nil, errors.Wrap(err, errors.InvalidInput, "failed to read Parquet schema")
	}

	inputIndices := schema.FieldIndices(inputField)
	answerIndices := schema.FieldIndices(answerField)
	if len(inputIndices) == 0 || len(answerIndices) == 0 {
		return nil, errors.WithFields(
			errors.New(errors.InvalidInput, "required columns not found in schema"),
			errors.Fields{"input_field": inputField, "answer_field": answerField})
	}

	table, err := arrowReader.ReadTable(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.InvalidInput, "failed to read Parquet table")
	}
	defer table.Release()

	inputChunks := table.Column(inputIndices[0]).Data().Chunks()
	answerChunks := table.Column(answerIndices[0]).Data().Chunks()
	if len(inputChunks) != len(answerChunks) {
		return nil, errors.New(errors.InvalidInput, "input and answer columns are chunked differently")
	}

	cases := make([]fitness.Case, 0, table.NumRows())
	for ci := range inputChunks {
		inputChunk, ok := inputChunks[ci].(*array.String)
		if !ok {
			return nil, errors.WithFields(
				errors.New(errors.InvalidInput, "input column is not a string column"),
				errors.Fields{"input_field": inputField})
		}
		answerChunk, ok := answerChunks[ci].(*array.String)
		if !ok {
			return nil, errors.WithFields(
				errors.New(errors.InvalidInput, "answer column is not a string column"),
				errors.Fields{"answer_field": answerField})
		}

		for i := 0; i < inputChunk.Len(); i++ {
			cases = append(cases, fitness.Case{
				Input:    inputChunk.Value(i),
				Expected: answerChunk.Value(i),
			})
		}
	}

	return cases, nil
}
