package redshift

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/redshiftdata"
	rdstypes "github.com/aws/aws-sdk-go-v2/service/redshiftdata/types"

	"github.com/ruslano69/redbridge/pkg/core/frame"
	"github.com/ruslano69/redbridge/pkg/core/rstype"
)

// Query выполняет SELECT и собирает результат в колоночный фрейм.
// Страницы результата связаны через NextToken; пустой токен означает
// конец. Метаданные колонок берутся только с первой страницы.
func (c *Client) Query(ctx context.Context, sql string) (*frame.Frame, error) {
	st, err := c.execute(ctx, sql)
	if err != nil {
		return nil, err
	}
	if err := c.waitStatement(ctx, st); err != nil {
		return nil, err
	}

	var (
		names   []string
		dtypes  []rstype.Type
		columns [][]rstype.Cell
		token   string
		first   = true
	)
	for {
		in := &redshiftdata.GetStatementResultInput{Id: aws.String(st.id)}
		if token != "" {
			in.NextToken = aws.String(token)
		}
		out, err := c.getStatementResult(ctx, in)
		if err != nil {
			return nil, err
		}

		if first {
			first = false
			for _, meta := range out.ColumnMetadata {
				names = append(names, aws.ToString(meta.Name))
				dtypes = append(dtypes, typeFromMetadata(meta))
			}
			columns = make([][]rstype.Cell, len(names))
		}

		for _, record := range out.Records {
			for i, field := range record {
				if i < len(columns) {
					columns[i] = append(columns[i], cellFromField(field))
				}
			}
		}

		token = aws.ToString(out.NextToken)
		if token == "" {
			break
		}
	}

	cols := make([]frame.Column, len(names))
	for i, name := range names {
		values, err := dtypes[i].DecodeColumn(columns[i])
		if err != nil {
			return nil, fmt.Errorf("column '%s': %w", name, err)
		}
		cols[i] = frame.Column{Name: name, Values: values}
	}
	return frame.New(cols...)
}

// typeFromMetadata сопоставляет typeName результата с дескриптором типа.
// Неизвестные имена читаются как VARCHAR.
func typeFromMetadata(meta rdstypes.ColumnMetadata) rstype.Type {
	t, err := rstype.Resolve(aws.ToString(meta.TypeName))
	if err != nil {
		return rstype.VarChar{Length: rstype.DefaultVarCharLength}
	}
	return t
}

// cellFromField переводит значение Data API во внутреннюю ячейку.
// Каждая ячейка несёт либо маркер NULL, либо ровно одно типизированное
// значение.
func cellFromField(f rdstypes.Field) rstype.Cell {
	switch v := f.(type) {
	case *rdstypes.FieldMemberIsNull:
		return rstype.NullCell()
	case *rdstypes.FieldMemberStringValue:
		return rstype.StringCell(v.Value)
	case *rdstypes.FieldMemberLongValue:
		return rstype.LongCell(v.Value)
	case *rdstypes.FieldMemberDoubleValue:
		return rstype.DoubleCell(v.Value)
	case *rdstypes.FieldMemberBooleanValue:
		return rstype.BoolCell(v.Value)
	case *rdstypes.FieldMemberBlobValue:
		return rstype.Cell{Blob: v.Value}
	}
	return rstype.NullCell()
}
