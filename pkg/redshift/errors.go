package redshift

import "fmt"

// InvalidAuthError возвращается, когда конфигурация не содержит ни
// db_user, ни secret_arn.
type InvalidAuthError struct{}

func (e *InvalidAuthError) Error() string {
	return "Authentication requires db_user or secret_arn."
}

// QueryFailedError возвращается, когда Data API сообщает статус FAILED.
// Cause — текст ошибки исполнителя без изменений.
type QueryFailedError struct {
	ID    string
	SQL   string
	Cause string
}

func (e *QueryFailedError) Error() string {
	return fmt.Sprintf("The following query was failed [ID: %s (sql: '%s')]\n(%s)", e.ID, e.SQL, e.Cause)
}

// QueryAbortedError возвращается, когда выполнение запроса остановлено
// пользователем (статус ABORTED).
type QueryAbortedError struct {
	ID  string
	SQL string
}

func (e *QueryAbortedError) Error() string {
	return fmt.Sprintf("The following query was stopped by user [ID: %s (sql: '%s')]", e.ID, e.SQL)
}

// TableCreationError возвращается при попытке создать уже существующую
// таблицу в режиме IfExistsFail.
type TableCreationError struct {
	Schema string
	Table  string
}

func (e *TableCreationError) Error() string {
	return fmt.Sprintf("Could not create the table %s in the schema %s because it already exists.", e.Table, e.Schema)
}

// EncodeError оборачивает ошибку кодирования значения с именем колонки.
type EncodeError struct {
	Column string
	Err    error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("Column '%s': %v", e.Column, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }
