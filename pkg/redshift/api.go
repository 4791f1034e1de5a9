package redshift

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/redshiftdata"
)

// DataAPI — узкий интерфейс потребителя Redshift Data API. Его
// реализует *redshiftdata.Client; в тестах и dev-режиме используется
// DevAPI.
type DataAPI interface {
	ExecuteStatement(ctx context.Context, params *redshiftdata.ExecuteStatementInput, optFns ...func(*redshiftdata.Options)) (*redshiftdata.ExecuteStatementOutput, error)
	DescribeStatement(ctx context.Context, params *redshiftdata.DescribeStatementInput, optFns ...func(*redshiftdata.Options)) (*redshiftdata.DescribeStatementOutput, error)
	GetStatementResult(ctx context.Context, params *redshiftdata.GetStatementResultInput, optFns ...func(*redshiftdata.Options)) (*redshiftdata.GetStatementResultOutput, error)
	ListTables(ctx context.Context, params *redshiftdata.ListTablesInput, optFns ...func(*redshiftdata.Options)) (*redshiftdata.ListTablesOutput, error)
}
