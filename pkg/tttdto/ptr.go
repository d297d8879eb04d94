package tttdto

func Int(v int) *int { return &v }

func Float(v float64) *float64 { return &v }
