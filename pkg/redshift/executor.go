package redshift

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/redshiftdata"
	rdstypes "github.com/aws/aws-sdk-go-v2/service/redshiftdata/types"
)

// execute отправляет SQL через ExecuteStatement и возвращает выражение
// с присвоенным ID. Аутентификация: SecretArn в приоритете, иначе DbUser.
func (c *Client) execute(ctx context.Context, sql string) (statement, error) {
	in := &redshiftdata.ExecuteStatementInput{
		ClusterIdentifier: aws.String(c.cfg.ClusterIdentifier),
		Database:          aws.String(c.cfg.Database),
		Sql:               aws.String(sql),
	}
	if c.cfg.SecretArn != "" {
		in.SecretArn = aws.String(c.cfg.SecretArn)
	} else {
		in.DbUser = aws.String(c.cfg.DbUser)
	}

	out, err := c.executeStatement(ctx, in)
	if err != nil {
		return statement{}, err
	}
	return statement{id: aws.ToString(out.Id), sql: sql}, nil
}

// Submit отправляет выражение на исполнение без ожидания результата и
// запоминает его для последующего Wait. Возвращает ID выражения.
func (c *Client) Submit(ctx context.Context, sql string) (string, error) {
	st, err := c.execute(ctx, sql)
	if err != nil {
		return "", err
	}
	c.pending = append(c.pending, st)
	return st.id, nil
}

// Wait дожидается завершения всех отправленных через Submit выражений
// в порядке отправки. Первая ошибка прерывает ожидание; уже
// подтверждённые и ошибочное выражения из очереди удаляются.
func (c *Client) Wait(ctx context.Context) error {
	for len(c.pending) > 0 {
		st := c.pending[0]
		err := c.waitStatement(ctx, st)
		c.pending = c.pending[1:]
		if err != nil {
			return err
		}
	}
	return nil
}

// Run отправляет одно выражение и дожидается его завершения, минуя
// общую очередь. Возвращает ID выражения.
func (c *Client) Run(ctx context.Context, sql string) (string, error) {
	st, err := c.execute(ctx, sql)
	if err != nil {
		return "", err
	}
	if err := c.waitStatement(ctx, st); err != nil {
		return st.id, err
	}
	return st.id, nil
}

// waitStatement опрашивает статус выражения с паузой PollInterval до
// терминального состояния. SUBMITTED, PICKED и STARTED продолжают опрос.
func (c *Client) waitStatement(ctx context.Context, st statement) error {
	for {
		out, err := c.describeStatement(ctx, &redshiftdata.DescribeStatementInput{Id: aws.String(st.id)})
		if err != nil {
			return err
		}
		switch out.Status {
		case rdstypes.StatusStringFinished:
			return nil
		case rdstypes.StatusStringFailed:
			return &QueryFailedError{ID: st.id, SQL: st.sql, Cause: aws.ToString(out.Error)}
		case rdstypes.StatusStringAborted:
			return &QueryAbortedError{ID: st.id, SQL: st.sql}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.cfg.PollInterval):
		}
	}
}

// callAPI пропускает вызов Data API через retry и circuit breaker.
// Breaker снаружи retry: исчерпанные повторы считаются одним отказом
// границы, а открытый circuit отсекает вызов до каких-либо попыток.
// Интерпретация статусов (FAILED, ABORTED) происходит выше и сюда не
// попадает.
func (c *Client) callAPI(ctx context.Context, op, sql string, fn func(ctx context.Context) error) error {
	call := fn
	if c.retryer != nil {
		call = func(ctx context.Context) error {
			if sql != "" {
				return c.retryer.DoWithDump(ctx, op, sql, fn)
			}
			return c.retryer.Do(ctx, op, fn)
		}
	}
	if c.breaker == nil {
		return call(ctx)
	}
	return c.breaker.Do(ctx, call)
}

func (c *Client) executeStatement(ctx context.Context, in *redshiftdata.ExecuteStatementInput) (*redshiftdata.ExecuteStatementOutput, error) {
	var out *redshiftdata.ExecuteStatementOutput
	err := c.callAPI(ctx, "ExecuteStatement", aws.ToString(in.Sql), func(ctx context.Context) error {
		var callErr error
		out, callErr = c.api.ExecuteStatement(ctx, in)
		return callErr
	})
	return out, err
}

func (c *Client) describeStatement(ctx context.Context, in *redshiftdata.DescribeStatementInput) (*redshiftdata.DescribeStatementOutput, error) {
	var out *redshiftdata.DescribeStatementOutput
	err := c.callAPI(ctx, "DescribeStatement", "", func(ctx context.Context) error {
		var callErr error
		out, callErr = c.api.DescribeStatement(ctx, in)
		return callErr
	})
	return out, err
}

func (c *Client) getStatementResult(ctx context.Context, in *redshiftdata.GetStatementResultInput) (*redshiftdata.GetStatementResultOutput, error) {
	var out *redshiftdata.GetStatementResultOutput
	err := c.callAPI(ctx, "GetStatementResult", "", func(ctx context.Context) error {
		var callErr error
		out, callErr = c.api.GetStatementResult(ctx, in)
		return callErr
	})
	return out, err
}

func (c *Client) listTables(ctx context.Context, in *redshiftdata.ListTablesInput) (*redshiftdata.ListTablesOutput, error) {
	var out *redshiftdata.ListTablesOutput
	err := c.callAPI(ctx, "ListTables", "", func(ctx context.Context) error {
		var callErr error
		out, callErr = c.api.ListTables(ctx, in)
		return callErr
	})
	return out, err
}
