package store

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/dafage00/MHXYPro/infrastructures/market"
)

// RecordStore 交易记录落盘，sqlite单文件
type RecordStore struct {
	db *sql.DB
}

// ItemStats 单个物品的行情统计，只统计有报价的记录
type ItemStats struct {
	Item      string  `json:"item"`
	Category  string  `json:"category"`
	Count     int     `json:"count"`
	BuyCount  int     `json:"buy_count"`
	SellCount int     `json:"sell_count"`
	AvgPrice  float64 `json:"avg_price"`
	MinPrice  float64 `json:"min_price"`
	MaxPrice  float64 `json:"max_price"`
}

const schema = `
CREATE TABLE IF NOT EXISTS market_records (
	id          TEXT PRIMARY KEY,
	item_name   TEXT NOT NULL,
	trade_type  TEXT NOT NULL,
	price       REAL NOT NULL,
	raw_text    TEXT,
	raw_name    TEXT,
	category    TEXT,
	subcategory TEXT,
	confidence  REAL,
	status      TEXT,
	created_at  TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_records_item ON market_records(item_name);
CREATE INDEX IF NOT EXISTS idx_records_created ON market_records(created_at);
`

// Open 打开或创建记录库
func Open(path string) (*RecordStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "打开记录库失败")
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "初始化记录库表结构失败")
	}
	return &RecordStore{db: db}, nil
}

// Close 关闭底层连接
func (s *RecordStore) Close() error {
	return s.db.Close()
}

// Insert 写入一批记录
func (s *RecordStore) Insert(records []*market.TradeRecord) error {
	if len(records) == 0 {
		return nil
	}
	tx, err := s.db.Begin()
	if err != nil {
		return errors.Wrap(err, "开启事务失败")
	}
	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO market_records
		(id, item_name, trade_type, price, raw_text, raw_name, category, subcategory, confidence, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return errors.Wrap(err, "预编译插入语句失败")
	}
	defer stmt.Close()

	for _, rec := range records {
		if _, err := stmt.Exec(rec.ID, rec.Item, string(rec.TradeType), rec.Price,
			rec.RawText, rec.RawName, rec.Category, rec.Subcategory,
			rec.Confidence, rec.Status, rec.Timestamp); err != nil {
			tx.Rollback()
			return errors.Wrapf(err, "写入记录%s失败", rec.ID)
		}
	}
	return errors.Wrap(tx.Commit(), "提交事务失败")
}

// Relabel 学习反馈后同步改库里的记录
func (s *RecordStore) Relabel(id, item, category, subcategory string) error {
	res, err := s.db.Exec(`UPDATE market_records
		SET item_name = ?, category = ?, subcategory = ?, status = ?
		WHERE id = ?`, item, category, subcategory, market.RecordStatusLearned, id)
	if err != nil {
		return errors.Wrap(err, "回填记录失败")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return market.ErrRecordNotFound
	}
	return nil
}

// Recent 按时间倒序取最近limit条
func (s *RecordStore) Recent(limit int) ([]*market.TradeRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`SELECT id, item_name, trade_type, price, raw_text, raw_name,
		category, subcategory, confidence, status, created_at
		FROM market_records ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "查询最近记录失败")
	}
	defer rows.Close()
	return scanRecords(rows)
}

// QueryByItem 按标准名取某物品的历史记录，时间倒序
func (s *RecordStore) QueryByItem(item string, limit int) ([]*market.TradeRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`SELECT id, item_name, trade_type, price, raw_text, raw_name,
		category, subcategory, confidence, status, created_at
		FROM market_records WHERE item_name = ? ORDER BY created_at DESC, id LIMIT ?`, item, limit)
	if err != nil {
		return nil, errors.Wrapf(err, "查询物品%s失败", item)
	}
	defer rows.Close()
	return scanRecords(rows)
}

// ItemStats 单物品行情统计，无报价记录（price=0）不参与
func (s *RecordStore) ItemStats(item string) (*ItemStats, error) {
	row := s.db.QueryRow(`SELECT item_name, IFNULL(MAX(category), ''), COUNT(*),
		SUM(CASE WHEN trade_type = 'buy' THEN 1 ELSE 0 END),
		SUM(CASE WHEN trade_type = 'sell' THEN 1 ELSE 0 END),
		AVG(price), MIN(price), MAX(price)
		FROM market_records WHERE item_name = ? AND price > 0 GROUP BY item_name`, item)

	st := &ItemStats{}
	err := row.Scan(&st.Item, &st.Category, &st.Count, &st.BuyCount, &st.SellCount,
		&st.AvgPrice, &st.MinPrice, &st.MaxPrice)
	if err == sql.ErrNoRows {
		return nil, market.ErrRecordNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "统计物品%s失败", item)
	}
	return st, nil
}

// AllItemStats 全量物品统计，按记录数降序
func (s *RecordStore) AllItemStats() ([]*ItemStats, error) {
	rows, err := s.db.Query(`SELECT item_name, IFNULL(MAX(category), ''), COUNT(*),
		SUM(CASE WHEN trade_type = 'buy' THEN 1 ELSE 0 END),
		SUM(CASE WHEN trade_type = 'sell' THEN 1 ELSE 0 END),
		AVG(price), MIN(price), MAX(price)
		FROM market_records WHERE price > 0 GROUP BY item_name ORDER BY COUNT(*) DESC`)
	if err != nil {
		return nil, errors.Wrap(err, "全量统计失败")
	}
	defer rows.Close()

	var out []*ItemStats
	for rows.Next() {
		st := &ItemStats{}
		if err := rows.Scan(&st.Item, &st.Category, &st.Count, &st.BuyCount, &st.SellCount,
			&st.AvgPrice, &st.MinPrice, &st.MaxPrice); err != nil {
			return nil, errors.Wrap(err, "读取统计行失败")
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

// Cleanup 清掉指定月数之前的历史，返回删除条数
func (s *RecordStore) Cleanup(retentionMonths int, now time.Time) (int64, error) {
	if retentionMonths <= 0 {
		retentionMonths = 3
	}
	deadline := now.AddDate(0, -retentionMonths, 0)
	res, err := s.db.Exec(`DELETE FROM market_records WHERE created_at < ?`, deadline)
	if err != nil {
		return 0, errors.Wrap(err, "清理历史记录失败")
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func scanRecords(rows *sql.Rows) ([]*market.TradeRecord, error) {
	var out []*market.TradeRecord
	for rows.Next() {
		rec := &market.TradeRecord{}
		var tradeType string
		if err := rows.Scan(&rec.ID, &rec.Item, &tradeType, &rec.Price, &rec.RawText,
			&rec.RawName, &rec.Category, &rec.Subcategory, &rec.Confidence,
			&rec.Status, &rec.Timestamp); err != nil {
			return nil, errors.Wrap(err, "读取记录行失败")
		}
		rec.TradeType = market.TradeType(tradeType)
		out = append(out, rec)
	}
	return out, rows.Err()
}
