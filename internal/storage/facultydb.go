package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/RecoveryAshes/FacultyCrawl/internal/models"
)

// DBFileName 数据库文件名
const DBFileName = "facultycrawl.db"

// ErrNotFound 没有符合条件的记录
var ErrNotFound = errors.New("记录不存在")

// FacultyDB SQLite存储
type FacultyDB struct {
	db     *sql.DB
	dbPath string
}

// Options 数据库选项
type Options struct {
	// CreateIfNotExists 数据库不存在时自动创建
	CreateIfNotExists bool

	// EnableWAL 启用WAL日志模式
	EnableWAL bool
}

// DefaultOptions 默认选项
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open 打开或创建dbDir下的数据库
func Open(dbDir string, opts Options) (*FacultyDB, error) {
	dbPath := filepath.Join(dbDir, DBFileName)

	var dsn string
	if opts.CreateIfNotExists {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("创建数据库目录失败: %w", err)
		}
		dsn = dbPath + "?mode=rwc"
	} else {
		if _, err := os.Stat(dbPath); err != nil {
			return nil, fmt.Errorf("数据库不存在 [%s]: %w", dbPath, err)
		}
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("打开数据库失败: %w", err)
	}

	// SQLite只支持单写者
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	fdb := &FacultyDB{db: db, dbPath: dbPath}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("启用WAL失败: %w", err)
		}
	}

	if err := fdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("创建数据表失败: %w", err)
	}

	return fdb, nil
}

// Path 数据库文件路径
func (fdb *FacultyDB) Path() string {
	return fdb.dbPath
}

// Close 关闭数据库连接
func (fdb *FacultyDB) Close() error {
	return fdb.db.Close()
}

func (fdb *FacultyDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS pages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		url TEXT NOT NULL,
		html TEXT,
		is_target INTEGER NOT NULL DEFAULT 0,
		run_id TEXT,
		fetched_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_pages_url ON pages(url);
	CREATE INDEX IF NOT EXISTS idx_pages_target ON pages(is_target);

	CREATE TABLE IF NOT EXISTS faculty (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		title TEXT NOT NULL,
		office TEXT,
		phone TEXT,
		email TEXT,
		website TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := fdb.db.ExecContext(context.Background(), schema)
	return err
}

// ResetPages 清空页面表
func (fdb *FacultyDB) ResetPages(ctx context.Context) error {
	if _, err := fdb.db.ExecContext(ctx, "DELETE FROM pages"); err != nil {
		return fmt.Errorf("清空页面失败: %w", err)
	}
	return nil
}

// InsertPage 写入页面, 成功后回填page.ID
func (fdb *FacultyDB) InsertPage(ctx context.Context, page *models.Page) error {
	fetchedAt := page.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now()
	}

	res, err := fdb.db.ExecContext(ctx,
		`INSERT INTO pages (url, html, is_target, run_id, fetched_at) VALUES (?, ?, ?, ?, ?)`,
		page.URL, nullString(page.HTML), page.IsTarget, page.RunID, fetchedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("写入页面 %s 失败: %w", page.URL, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("获取页面ID失败: %w", err)
	}
	page.ID = id
	return nil
}

// SetTargetFlag 将URL对应的页面标记为目标页
func (fdb *FacultyDB) SetTargetFlag(ctx context.Context, url string) error {
	res, err := fdb.db.ExecContext(ctx, `UPDATE pages SET is_target = 1 WHERE url = ?`, url)
	if err != nil {
		return fmt.Errorf("标记目标页 %s 失败: %w", url, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("标记目标页 %s 失败: %w", url, err)
	}
	if n == 0 {
		return fmt.Errorf("标记目标页 %s 失败: %w", url, ErrNotFound)
	}
	return nil
}

// FindTargetPage 返回第一个被标记的目标页
// 没有目标页时返回ErrNotFound
func (fdb *FacultyDB) FindTargetPage(ctx context.Context) (*models.Page, error) {
	row := fdb.db.QueryRowContext(ctx,
		`SELECT id, url, html, is_target, run_id, fetched_at FROM pages WHERE is_target = 1 ORDER BY id LIMIT 1`)

	var (
		page  models.Page
		html  sql.NullString
		runID sql.NullString
	)
	if err := row.Scan(&page.ID, &page.URL, &html, &page.IsTarget, &runID, &page.FetchedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("查询目标页失败: %w", err)
	}
	page.HTML = html.String
	page.RunID = runID.String
	return &page, nil
}

// CountPages 返回页面数量
func (fdb *FacultyDB) CountPages(ctx context.Context) (int, error) {
	var n int
	if err := fdb.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pages`).Scan(&n); err != nil {
		return 0, fmt.Errorf("统计页面失败: %w", err)
	}
	return n, nil
}

// ResetRecords 清空教师记录表
func (fdb *FacultyDB) ResetRecords(ctx context.Context) error {
	if _, err := fdb.db.ExecContext(ctx, "DELETE FROM faculty"); err != nil {
		return fmt.Errorf("清空教师记录失败: %w", err)
	}
	return nil
}

// InsertRecords 在一个事务中写入全部教师记录
func (fdb *FacultyDB) InsertRecords(ctx context.Context, records []models.FacultyRecord) error {
	tx, err := fdb.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("开启事务失败: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO faculty (name, title, office, phone, email, website) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("准备语句失败: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.ExecContext(ctx,
			r.Name, r.Title,
			nullString(r.Office), nullString(r.Phone), nullString(r.Email), nullString(r.Website),
		); err != nil {
			return fmt.Errorf("写入教师记录 %s 失败: %w", r.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("提交事务失败: %w", err)
	}
	return nil
}

// ListRecords 按写入顺序返回全部教师记录
func (fdb *FacultyDB) ListRecords(ctx context.Context) ([]models.FacultyRecord, error) {
	rows, err := fdb.db.QueryContext(ctx,
		`SELECT name, title, office, phone, email, website FROM faculty ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("查询教师记录失败: %w", err)
	}
	defer rows.Close()

	var records []models.FacultyRecord
	for rows.Next() {
		var (
			r                             models.FacultyRecord
			office, phone, email, website sql.NullString
		)
		if err := rows.Scan(&r.Name, &r.Title, &office, &phone, &email, &website); err != nil {
			return nil, fmt.Errorf("读取教师记录失败: %w", err)
		}
		r.Office = office.String
		r.Phone = phone.String
		r.Email = email.String
		r.Website = website.String
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("遍历教师记录失败: %w", err)
	}
	return records, nil
}

// nullString 空字符串存为NULL
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
