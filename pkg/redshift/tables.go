package redshift

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/redshiftdata"
)

// ExistsTable проверяет наличие таблицы в схеме подключённой базы.
func (c *Client) ExistsTable(ctx context.Context, table, schema string) (bool, error) {
	return c.ExistsTableIn(ctx, c.cfg.Database, table, schema)
}

// ExistsTableIn проверяет наличие таблицы в указанной базе. Каталог
// читается через ListTables с фильтром по схеме; страницы связаны через
// NextToken так же, как у результатов запросов.
func (c *Client) ExistsTableIn(ctx context.Context, database, table, schema string) (bool, error) {
	var token string
	for {
		in := &redshiftdata.ListTablesInput{
			ClusterIdentifier: aws.String(c.cfg.ClusterIdentifier),
			Database:          aws.String(database),
			SchemaPattern:     aws.String(schema),
		}
		if c.cfg.SecretArn != "" {
			in.SecretArn = aws.String(c.cfg.SecretArn)
		} else {
			in.DbUser = aws.String(c.cfg.DbUser)
			in.ConnectedDatabase = aws.String(c.cfg.Database)
		}
		if token != "" {
			in.NextToken = aws.String(token)
		}

		out, err := c.listTables(ctx, in)
		if err != nil {
			return false, err
		}
		for _, t := range out.Tables {
			if aws.ToString(t.Name) == table {
				return true, nil
			}
		}

		token = aws.ToString(out.NextToken)
		if token == "" {
			return false, nil
		}
	}
}
