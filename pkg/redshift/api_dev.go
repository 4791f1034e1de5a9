//go:build !production

package redshift

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/redshiftdata"
	rdstypes "github.com/aws/aws-sdk-go-v2/service/redshiftdata/types"
)

// DevAPI — Redshift Data API в памяти, без обращения к AWS.
// Доступен только в не-продакшен сборках (go build без -tags production).
// Использование: redbridge -dev, а также модульные тесты пакета.
//
// Выражения принимаются и сразу считаются выполненными; результаты
// SELECT и содержимое каталога задаются заранее через SetResult и
// AddTable. Для каждого вызова фабрикуется конверт ответа с request-id
// и HTTP-статусом, как у настоящего сервиса.
type DevAPI struct {
	mu         sync.Mutex
	seq        int
	statements map[string]*devStatement
	order      []string

	tables       []DevTable
	results      map[string]*DevResult
	failWith     map[string]string
	abortWith    []string
	settleAfter  int
	tablesPage   int
	execFailures int
	execErr      error

	executeInputs []*redshiftdata.ExecuteStatementInput
	listInputs    []*redshiftdata.ListTablesInput
	envelopes     []CallEnvelope
}

// CallEnvelope — сфабрикованные метаданные одного вызова API.
type CallEnvelope struct {
	Operation      string
	RequestID      string
	HTTPStatusCode int
	HTTPHeaders    map[string]string
	RetryAttempts  int
}

// DevTable — запись каталога в dev-режиме.
type DevTable struct {
	Schema string
	Name   string
}

// DevResult — подготовленный результат SELECT: метаданные колонок и
// страницы записей.
type DevResult struct {
	Columns []rdstypes.ColumnMetadata
	Pages   [][][]rdstypes.Field
}

// devStatement — принятое выражение и его сценарий статусов.
type devStatement struct {
	id        string
	sql       string
	describes int
	failWith  string
	aborted   bool
}

// NewDevAPI создаёт пустой dev-API.
func NewDevAPI() *DevAPI {
	return &DevAPI{
		statements: make(map[string]*devStatement),
		results:    make(map[string]*DevResult),
		failWith:   make(map[string]string),
	}
}

// AddTable добавляет таблицу в каталог.
func (d *DevAPI) AddTable(schema, name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tables = append(d.tables, DevTable{Schema: schema, Name: name})
}

// SetResult задаёт результат для выражений, содержащих подстроку
// sqlSubstr.
func (d *DevAPI) SetResult(sqlSubstr string, res *DevResult) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.results[sqlSubstr] = res
}

// FailWith помечает выражения с подстрокой sqlSubstr как FAILED с
// заданным текстом ошибки исполнителя.
func (d *DevAPI) FailWith(sqlSubstr, errText string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.failWith[sqlSubstr] = errText
}

// AbortWith помечает выражения с подстрокой sqlSubstr как ABORTED.
func (d *DevAPI) AbortWith(sqlSubstr string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.abortWith = append(d.abortWith, sqlSubstr)
}

// SettleAfter задаёт число опросов DescribeStatement, возвращающих
// STARTED до терминального статуса.
func (d *DevAPI) SettleAfter(n int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.settleAfter = n
}

// TablesPerPage включает пагинацию ListTables по n записей.
func (d *DevAPI) TablesPerPage(n int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tablesPage = n
}

// FailExecutions заставляет первые n вызовов ExecuteStatement вернуть
// транспортную ошибку err.
func (d *DevAPI) FailExecutions(n int, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.execFailures = n
	d.execErr = err
}

// ExecutedSQL возвращает принятые выражения в порядке отправки.
func (d *DevAPI) ExecutedSQL() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	sqls := make([]string, len(d.order))
	for i, id := range d.order {
		sqls[i] = d.statements[id].sql
	}
	return sqls
}

// ExecuteInputs возвращает входы всех вызовов ExecuteStatement.
func (d *DevAPI) ExecuteInputs() []*redshiftdata.ExecuteStatementInput {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]*redshiftdata.ExecuteStatementInput(nil), d.executeInputs...)
}

// ListInputs возвращает входы всех вызовов ListTables.
func (d *DevAPI) ListInputs() []*redshiftdata.ListTablesInput {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]*redshiftdata.ListTablesInput(nil), d.listInputs...)
}

// Envelopes возвращает конверты всех обработанных вызовов.
func (d *DevAPI) Envelopes() []CallEnvelope {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]CallEnvelope(nil), d.envelopes...)
}

// record фабрикует конверт ответа очередного вызова.
func (d *DevAPI) record(op string, status int) {
	d.seq++
	requestID := fmt.Sprintf("dev-%08d", d.seq)
	d.envelopes = append(d.envelopes, CallEnvelope{
		Operation:      op,
		RequestID:      requestID,
		HTTPStatusCode: status,
		HTTPHeaders: map[string]string{
			"content-type":     "application/x-amz-json-1.1",
			"x-amzn-requestid": requestID,
		},
		RetryAttempts: 0,
	})
}

// ExecuteStatement принимает выражение и присваивает ему ID.
func (d *DevAPI) ExecuteStatement(ctx context.Context, params *redshiftdata.ExecuteStatementInput, optFns ...func(*redshiftdata.Options)) (*redshiftdata.ExecuteStatementOutput, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.executeInputs = append(d.executeInputs, params)

	if d.execFailures > 0 {
		d.execFailures--
		d.record("ExecuteStatement", 500)
		return nil, d.execErr
	}

	sql := aws.ToString(params.Sql)
	st := &devStatement{
		id:  fmt.Sprintf("statement-%06d", len(d.order)+1),
		sql: sql,
	}
	for substr, errText := range d.failWith {
		if strings.Contains(sql, substr) {
			st.failWith = errText
		}
	}
	for _, substr := range d.abortWith {
		if strings.Contains(sql, substr) {
			st.aborted = true
		}
	}
	d.statements[st.id] = st
	d.order = append(d.order, st.id)

	d.record("ExecuteStatement", 200)
	return &redshiftdata.ExecuteStatementOutput{
		Id:                aws.String(st.id),
		ClusterIdentifier: params.ClusterIdentifier,
		Database:          params.Database,
	}, nil
}

// DescribeStatement возвращает статус по сценарию выражения.
func (d *DevAPI) DescribeStatement(ctx context.Context, params *redshiftdata.DescribeStatementInput, optFns ...func(*redshiftdata.Options)) (*redshiftdata.DescribeStatementOutput, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	st, ok := d.statements[aws.ToString(params.Id)]
	if !ok {
		d.record("DescribeStatement", 400)
		return nil, fmt.Errorf("statement not found: %s", aws.ToString(params.Id))
	}

	st.describes++
	d.record("DescribeStatement", 200)

	out := &redshiftdata.DescribeStatementOutput{Id: aws.String(st.id)}
	switch {
	case st.describes <= d.settleAfter:
		out.Status = rdstypes.StatusStringStarted
	case st.failWith != "":
		out.Status = rdstypes.StatusStringFailed
		out.Error = aws.String(st.failWith)
	case st.aborted:
		out.Status = rdstypes.StatusStringAborted
	default:
		out.Status = rdstypes.StatusStringFinished
		out.HasResultSet = aws.Bool(d.findResult(st.sql) != nil)
	}
	return out, nil
}

// GetStatementResult выдаёт страницы подготовленного результата.
// Токен страницы имеет вид page-N, пустой токен в ответе - конец.
func (d *DevAPI) GetStatementResult(ctx context.Context, params *redshiftdata.GetStatementResultInput, optFns ...func(*redshiftdata.Options)) (*redshiftdata.GetStatementResultOutput, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	st, ok := d.statements[aws.ToString(params.Id)]
	if !ok {
		d.record("GetStatementResult", 400)
		return nil, fmt.Errorf("statement not found: %s", aws.ToString(params.Id))
	}

	page := 0
	if token := aws.ToString(params.NextToken); token != "" {
		n, err := strconv.Atoi(strings.TrimPrefix(token, "page-"))
		if err != nil {
			d.record("GetStatementResult", 400)
			return nil, fmt.Errorf("bad next token: %s", token)
		}
		page = n
	}
	d.record("GetStatementResult", 200)

	res := d.findResult(st.sql)
	if res == nil {
		return &redshiftdata.GetStatementResultOutput{}, nil
	}

	out := &redshiftdata.GetStatementResultOutput{
		ColumnMetadata: res.Columns,
	}
	if page < len(res.Pages) {
		out.Records = res.Pages[page]
	}
	if page+1 < len(res.Pages) {
		out.NextToken = aws.String(fmt.Sprintf("page-%d", page+1))
	}
	return out, nil
}

// ListTables выдаёт каталог с фильтром по схеме. Шаблон со звёздочкой
// SQL LIKE поддержан в минимальном виде: суффикс % как префиксный
// фильтр, иначе точное совпадение.
func (d *DevAPI) ListTables(ctx context.Context, params *redshiftdata.ListTablesInput, optFns ...func(*redshiftdata.Options)) (*redshiftdata.ListTablesOutput, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.listInputs = append(d.listInputs, params)

	start := 0
	if token := aws.ToString(params.NextToken); token != "" {
		n, err := strconv.Atoi(strings.TrimPrefix(token, "tables-"))
		if err != nil {
			d.record("ListTables", 400)
			return nil, fmt.Errorf("bad next token: %s", token)
		}
		start = n
	}
	d.record("ListTables", 200)

	pattern := aws.ToString(params.SchemaPattern)
	matched := make([]rdstypes.TableMember, 0, len(d.tables))
	for _, t := range d.tables {
		if matchSchemaPattern(pattern, t.Schema) {
			matched = append(matched, rdstypes.TableMember{
				Name:   aws.String(t.Name),
				Schema: aws.String(t.Schema),
				Type:   aws.String("TABLE"),
			})
		}
	}

	end := len(matched)
	out := &redshiftdata.ListTablesOutput{}
	if d.tablesPage > 0 && start+d.tablesPage < end {
		end = start + d.tablesPage
		out.NextToken = aws.String(fmt.Sprintf("tables-%d", end))
	}
	if start > len(matched) {
		start = len(matched)
	}
	out.Tables = matched[start:end]
	return out, nil
}

// findResult ищет подготовленный результат по подстроке SQL.
func (d *DevAPI) findResult(sql string) *DevResult {
	for substr, res := range d.results {
		if strings.Contains(sql, substr) {
			return res
		}
	}
	return nil
}

func matchSchemaPattern(pattern, schema string) bool {
	if pattern == "" {
		return true
	}
	if strings.HasSuffix(pattern, "%") {
		return strings.HasPrefix(schema, strings.TrimSuffix(pattern, "%"))
	}
	return pattern == schema
}
