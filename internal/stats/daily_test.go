package stats_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitepulse/internal/stats"
	"sitepulse/internal/testsupport"
)

func TestUTCDayStart(t *testing.T) {
	t.Run("truncates to midnight UTC", func(t *testing.T) {
		at := time.Date(2026, 5, 3, 17, 42, 9, 123, time.UTC)
		assert.Equal(t, time.Date(2026, 5, 3, 0, 0, 0, 0, time.UTC), stats.UTCDayStart(at))
	})

	t.Run("converts zoned input before truncating", func(t *testing.T) {
		tokyo := time.FixedZone("JST", 9*3600)
		// 07:00 JST May 3 is 22:00 UTC May 2
		at := time.Date(2026, 5, 3, 7, 0, 0, 0, tokyo)
		assert.Equal(t, time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC), stats.UTCDayStart(at))
	})
}

func TestBumpDay(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	ctx := context.Background()

	t.Run("first bump creates the row seeded at one", func(t *testing.T) {
		testsupport.CleanAllTables(db)
		day := stats.UTCDayStart(time.Now())

		require.NoError(t, stats.BumpDay(ctx, db, day))

		var row stats.DailyStat
		require.NoError(t, db.Where("date = ?", day).First(&row).Error)
		assert.Equal(t, int64(1), row.Views)
		assert.Equal(t, int64(1), row.Visitors)
		assert.Equal(t, int64(1), row.Sessions)
	})

	t.Run("repeated bumps never lose an increment", func(t *testing.T) {
		testsupport.CleanAllTables(db)
		day := stats.UTCDayStart(time.Now())

		const n = 25
		for i := 0; i < n; i++ {
			require.NoError(t, stats.BumpDay(ctx, db, day))
		}

		var row stats.DailyStat
		require.NoError(t, db.Where("date = ?", day).First(&row).Error)
		assert.Equal(t, int64(n), row.Views)

		var count int64
		require.NoError(t, db.Model(&stats.DailyStat{}).Count(&count).Error)
		assert.Equal(t, int64(1), count, "one day, one row")
	})

	t.Run("concurrent bumps never lose an increment", func(t *testing.T) {
		testsupport.CleanAllTables(db)
		day := stats.UTCDayStart(time.Now())

		// one connection, so goroutines contend at the statement level and a
		// read-modify-write increment would interleave and drop counts
		sqlDB, err := db.DB()
		require.NoError(t, err)
		sqlDB.SetMaxOpenConns(1)

		const n = 50
		errs := make(chan error, n)
		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				errs <- stats.BumpDay(ctx, db, day)
			}()
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		var row stats.DailyStat
		require.NoError(t, db.Where("date = ?", day).First(&row).Error)
		assert.Equal(t, int64(n), row.Views)

		var count int64
		require.NoError(t, db.Model(&stats.DailyStat{}).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("different days get separate rows", func(t *testing.T) {
		testsupport.CleanAllTables(db)
		today := stats.UTCDayStart(time.Now())
		yesterday := today.AddDate(0, 0, -1)

		require.NoError(t, stats.BumpDay(ctx, db, yesterday))
		require.NoError(t, stats.BumpDay(ctx, db, today))
		require.NoError(t, stats.BumpDay(ctx, db, today))

		var rows []stats.DailyStat
		require.NoError(t, db.Order("date ASC").Find(&rows).Error)
		require.Len(t, rows, 2)
		assert.Equal(t, int64(1), rows[0].Views)
		assert.Equal(t, int64(2), rows[1].Views)
	})

	t.Run("cancelled context aborts the bump", func(t *testing.T) {
		testsupport.CleanAllTables(db)
		cancelled, cancel := context.WithCancel(context.Background())
		cancel()

		err := stats.BumpDay(cancelled, db, stats.UTCDayStart(time.Now()))
		assert.Error(t, err)
	})
}

func TestLatestDay(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	ctx := context.Background()

	t.Run("nil when nothing was ever rolled up", func(t *testing.T) {
		testsupport.CleanAllTables(db)

		latest, err := stats.LatestDay(db)
		require.NoError(t, err)
		assert.Nil(t, latest)
	})

	t.Run("returns the most recent day", func(t *testing.T) {
		testsupport.CleanAllTables(db)
		today := stats.UTCDayStart(time.Now())

		require.NoError(t, stats.BumpDay(ctx, db, today.AddDate(0, 0, -3)))
		require.NoError(t, stats.BumpDay(ctx, db, today))
		require.NoError(t, stats.BumpDay(ctx, db, today.AddDate(0, 0, -1)))

		latest, err := stats.LatestDay(db)
		require.NoError(t, err)
		require.NotNil(t, latest)
		assert.True(t, latest.Date.Equal(today))
	})
}

func TestGetRange(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	ctx := context.Background()
	testsupport.CleanAllTables(db)

	today := stats.UTCDayStart(time.Now())
	for daysAgo := 0; daysAgo < 5; daysAgo++ {
		day := today.AddDate(0, 0, -daysAgo)
		for i := 0; i <= daysAgo; i++ {
			require.NoError(t, stats.BumpDay(ctx, db, day))
		}
	}

	t.Run("returns rows in ascending date order", func(t *testing.T) {
		rows, err := stats.GetRange(db, today.AddDate(0, 0, -4), today)
		require.NoError(t, err)
		require.Len(t, rows, 5)

		for i := 1; i < len(rows); i++ {
			assert.True(t, rows[i].Date.After(rows[i-1].Date))
		}
		assert.Equal(t, int64(5), rows[0].Views, "oldest day was bumped five times")
		assert.Equal(t, int64(1), rows[4].Views)
	})

	t.Run("excludes days outside the range", func(t *testing.T) {
		rows, err := stats.GetRange(db, today.AddDate(0, 0, -1), today)
		require.NoError(t, err)
		assert.Len(t, rows, 2)
	})

	t.Run("empty range yields no rows", func(t *testing.T) {
		rows, err := stats.GetRange(db, today.AddDate(0, 0, 10), today.AddDate(0, 0, 20))
		require.NoError(t, err)
		assert.Empty(t, rows)
	})
}
