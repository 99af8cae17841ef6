package models

// AllModels returns every persisted model in dependency order for AutoMigrate.
func AllModels() []interface{} {
	return []interface{}{
		&College{},
		&Department{},
		&Course{},
		&User{},
		&Issue{},
		&Notification{},
	}
}
