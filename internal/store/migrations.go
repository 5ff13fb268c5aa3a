package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Watches table - the try-on catalog
		`CREATE TABLE IF NOT EXISTS watches (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			brand TEXT NOT NULL DEFAULT '',
			price REAL NOT NULL DEFAULT 0,
			description TEXT NOT NULL DEFAULT '',
			image_path TEXT NOT NULL,
			case_size INTEGER NOT NULL DEFAULT 40,
			style TEXT NOT NULL CHECK(style IN ('classic', 'sports', 'luxury')) DEFAULT 'classic',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_watches_brand ON watches(brand)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}

// seedWatches inserts the default catalog on first run.
func (s *Store) seedWatches() error {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM watches`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	seed := []Watch{
		{ID: "1", Name: "Speedmaster", Brand: "Omega", Price: 6500,
			Description: "The legendary Moonwatch. Professional chronograph with iconic tachymeter bezel.",
			ImagePath:   "Speedmaster.png", CaseSize: 42, Style: StyleSports},
		{ID: "2", Name: "Speedmaster Dark", Brand: "Omega", Price: 7200,
			Description: "Dark side of the moon. Ceramic case with stealth aesthetics.",
			ImagePath:   "Speedmaster dark.png", CaseSize: 44, Style: StyleSports},
		{ID: "3", Name: "Seamaster Diver", Brand: "Omega", Price: 5800,
			Description: "Professional diving watch with 300m water resistance. Wave-pattern dial.",
			ImagePath:   "Seamaster drive.png", CaseSize: 42, Style: StyleSports},
		{ID: "4", Name: "Seamaster Aqua Terra", Brand: "Omega", Price: 6200,
			Description: "Versatile luxury sports watch with teak dial pattern. 150m water resistant.",
			ImagePath:   "seamaster aqua teera 150m.png", CaseSize: 41, Style: StyleClassic},
		{ID: "5", Name: "Planet Ocean", Brand: "Omega", Price: 8900,
			Description: "Deep sea explorer with 600m water resistance. Unidirectional bezel.",
			ImagePath:   "planet.png", CaseSize: 43, Style: StyleSports},
		{ID: "6", Name: "Constellation", Brand: "Omega", Price: 7500,
			Description: "Elegant dress watch with iconic claws and star logo. Precision timepiece.",
			ImagePath:   "inst.png", CaseSize: 39, Style: StyleLuxury},
		{ID: "7", Name: "Heritage", Brand: "Omega", Price: 4900,
			Description: "Vintage-inspired timepiece with modern movement. Classic styling.",
			ImagePath:   "heritage.png", CaseSize: 40, Style: StyleClassic},
		{ID: "8", Name: "Diver 300M", Brand: "Omega", Price: 5400,
			Description: "Professional dive watch with helium escape valve. Robust and reliable.",
			ImagePath:   "diver.png", CaseSize: 42, Style: StyleSports},
	}

	repo := s.Watches()
	for i := range seed {
		if err := repo.Create(&seed[i]); err != nil {
			return err
		}
	}

	return nil
}
