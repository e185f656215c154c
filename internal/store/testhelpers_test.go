package store

import (
	"time"

	"github.com/sells-group/gamejoin/internal/model"
)

func testRun(id string, created time.Time) model.Run {
	return model.Run{
		ID:             id,
		Status:         model.RunStatusComplete,
		Rows:           2,
		SalesMatches:   1,
		RatingsMatches: 1,
		Threshold:      80,
		MinScore:       60,
		Output:         "combined_video_game_data.csv",
		CreatedAt:      created,
	}
}

func testRecords() []model.CombinedRecord {
	return []model.CombinedRecord{
		{
			Name:             "Assassin's Creed",
			ReleaseYear:      "2007",
			Developer:        "Ubisoft Montreal",
			Publisher:        "Ubisoft",
			WCDRating:        "Recommended",
			WCDReview:        "Solid.",
			RAWGRating:       model.Some(88),
			MetacriticRating: model.Some(85),
			NASales:          model.Some(1.5),
			EUSales:          model.Some(1),
			JPSales:          model.Some(0.2),
			OtherSales:       model.Some(0.5),
			GlobalSales:      model.Some(3.2),
		},
		{
			Name:        "Unknown Game",
			ReleaseYear: model.NotAvailable,
			Developer:   model.NotAvailable,
			Publisher:   model.NotAvailable,
			WCDRating:   "Neutral",
		},
	}
}
