package testkit

import (
	"path/filepath"
	"testing"
)

// SQLiteTarget 返回一个独立的内存 SQLite 目标
//
// 每次调用使用不同的数据库名，连接池内的连接共享同一个内存库。
func SQLiteTarget(t *testing.T) map[string]string {
	t.Helper()
	return map[string]string{
		"driver-class-name": "org.sqlite.JDBC",
		"url":               "jdbc:sqlite:file:" + NewID() + "?mode=memory&cache=shared",
		"username":          "",
		"password":          "",
	}
}

// PersistentSQLiteTarget 返回文件 SQLite 目标，数据库文件存储在 t.TempDir() 中
func PersistentSQLiteTarget(t *testing.T) map[string]string {
	t.Helper()
	return map[string]string{
		"driver-class-name": "sqlite",
		"url":               filepath.Join(t.TempDir(), NewID()+".db"),
		"username":          "",
		"password":          "",
	}
}
