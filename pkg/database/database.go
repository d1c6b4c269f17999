package database

import (
	"fmt"
	"time"

	"study_rewards_backend/internal/config"
	"study_rewards_backend/internal/model"
	applog "study_rewards_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Dialector 根据配置选择 MySQL 或 PostgreSQL
func Dialector(cfg *config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "", "mysql":
		// 引擎事务按 READ COMMITTED 运行：每条语句读取最新提交的数据，且不加间隙锁
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=UTC&transaction_isolation=%%27READ-COMMITTED%%27",
			cfg.User,
			cfg.Password,
			cfg.Host,
			cfg.Port,
			cfg.DBName,
			cfg.Charset,
			cfg.ParseTime,
		)
		return mysql.Open(dsn), nil
	case "postgres":
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
			cfg.Host,
			cfg.Port,
			cfg.User,
			cfg.Password,
			cfg.DBName,
			cfg.SSLMode,
		)
		return postgres.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func InitDB(cfg *config.DatabaseConfig, debug bool, migrate bool) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	level := logger.Warn
	if debug {
		level = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(level),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	applog.Log.Info("Database connection established", zap.String("driver", cfg.Driver))

	if migrate {
		if err := Migrate(db); err != nil {
			return nil, err
		}
		applog.Log.Info("Database migration completed")
	}

	if cfg.SeedDemo {
		if err := SeedDemo(db); err != nil {
			return nil, err
		}
	}

	return db, nil
}

// Models 引擎使用的全部表
func Models() []interface{} {
	return []interface{}{
		&model.PointAccount{},
		&model.PointEntry{},
		&model.LoginStreak{},
		&model.Subject{},
		&model.Chapter{},
		&model.DailyMission{},
		&model.Quest{},
		&model.QuestQuestion{},
		&model.QuestResult{},
		&model.Prize{},
		&model.GachaDraw{},
	}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

// SeedDemo 空库时写入演示用的目录和奖品
func SeedDemo(db *gorm.DB) error {
	var prizeCount int64
	if err := db.Model(&model.Prize{}).Count(&prizeCount).Error; err != nil {
		return err
	}
	if prizeCount == 0 {
		defaultPrizes := []model.Prize{
			{Name: "Bronze Badge", PrizeType: "badge", TotalStock: 500, RemainingStock: 500, Weight: 70, IsActive: true, DisplayOrder: 1},
			{Name: "Silver Badge", PrizeType: "badge", TotalStock: 100, RemainingStock: 100, Weight: 25, IsActive: true, DisplayOrder: 2},
			{Name: "Gold Trophy", PrizeType: "trophy", TotalStock: 5, RemainingStock: 5, Weight: 5, IsActive: true, DisplayOrder: 3},
		}
		for i := range defaultPrizes {
			if err := db.Create(&defaultPrizes[i]).Error; err != nil {
				return err
			}
		}
	}

	var subjectCount int64
	if err := db.Model(&model.Subject{}).Count(&subjectCount).Error; err != nil {
		return err
	}
	if subjectCount == 0 {
		subjects := []model.Subject{
			{Name: "Mathematics", DisplayOrder: 1},
			{Name: "English", DisplayOrder: 2},
		}
		for i := range subjects {
			if err := db.Create(&subjects[i]).Error; err != nil {
				return err
			}
			for n := 1; n <= 3; n++ {
				chapter := model.Chapter{
					SubjectID:    &subjects[i].ID,
					Title:        fmt.Sprintf("%s %d", subjects[i].Name, n),
					DisplayOrder: n,
					IsPublished:  true,
				}
				if err := db.Create(&chapter).Error; err != nil {
					return err
				}
			}
		}
	}

	return nil
}
