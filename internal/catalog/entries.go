package catalog

import "github.com/claude/liftstats/internal/models"

var defaultEntries = []Entry{
	// Chest
	{Name: "Bench Press", Group: models.MuscleGroupChest, Aliases: []string{"Flat Bench", "Barbell Bench Press", "BB Bench", "Flat Bench Press"}},
	{Name: "Incline Bench Press", Group: models.MuscleGroupChest, Aliases: []string{"Incline Press", "Incline Barbell Press"}},
	{Name: "Dumbbell Bench Press", Group: models.MuscleGroupChest, Aliases: []string{"DB Bench", "Dumbbell Press", "Flat DB Press"}},
	{Name: "Incline Dumbbell Press", Group: models.MuscleGroupChest, Aliases: []string{"Incline DB Press", "Incline Dumbbell Bench Press"}},
	{Name: "Chest Fly", Group: models.MuscleGroupChest, Aliases: []string{"Dumbbell Fly", "Pec Fly", "Pec Deck", "Butterfly", "Cable Fly", "Cable Crossover"}},
	{Name: "Chest Press", Group: models.MuscleGroupChest, Aliases: []string{"Machine Chest Press", "Seated Chest Press"}},
	{Name: "Push Up", Group: models.MuscleGroupChest, Aliases: []string{"Pushup", "Push-Up", "Press Up"}},
	{Name: "Dip", Group: models.MuscleGroupChest, Aliases: []string{"Chest Dip", "Parallel Bar Dip"}},

	// Back
	{Name: "Deadlift", Group: models.MuscleGroupBack, Aliases: []string{"Conventional Deadlift", "Barbell Deadlift"}},
	{Name: "Pull Up", Group: models.MuscleGroupBack, Aliases: []string{"Pullup", "Pull-Up", "Wide Grip Pull Up"}},
	{Name: "Chin Up", Group: models.MuscleGroupBack, Aliases: []string{"Chinup", "Chin-Up"}},
	{Name: "Lat Pulldown", Group: models.MuscleGroupBack, Aliases: []string{"Lat Pull Down", "Cable Pulldown", "Wide Grip Pulldown"}},
	{Name: "Bent Over Row", Group: models.MuscleGroupBack, Aliases: []string{"Barbell Row", "BB Row", "Pendlay Row"}},
	{Name: "Dumbbell Row", Group: models.MuscleGroupBack, Aliases: []string{"DB Row", "One Arm Row", "Single Arm Row"}},
	{Name: "Seated Cable Row", Group: models.MuscleGroupBack, Aliases: []string{"Cable Row", "Seated Row", "Low Row"}},
	{Name: "T-Bar Row", Group: models.MuscleGroupBack, Aliases: []string{"T Bar Row", "Chest Supported Row"}},
	{Name: "Hyperextension", Group: models.MuscleGroupBack, Aliases: []string{"Hyperextensions on Roman Chair", "Back Extension", "Roman Chair Extension"}},
	{Name: "Shrug", Group: models.MuscleGroupBack, Aliases: []string{"Barbell Shrug", "Dumbbell Shrug"}},

	// Arms
	{Name: "Bicep Curl", Group: models.MuscleGroupBiceps, Aliases: []string{"Barbell Curl", "Dumbbell Curl", "Biceps Curl", "EZ Bar Curl"}},
	{Name: "Hammer Curl", Group: models.MuscleGroupBiceps, Aliases: []string{"Rope Hammer Curl"}},
	{Name: "Preacher Curl", Group: models.MuscleGroupBiceps, Aliases: []string{"Scott Curl"}},
	{Name: "Triceps Pushdown", Group: models.MuscleGroupTriceps, Aliases: []string{"Tricep Pushdown", "Rope Pushdown", "Cable Pushdown"}},
	{Name: "Skull Crusher", Group: models.MuscleGroupTriceps, Aliases: []string{"Lying Triceps Extension", "EZ Bar Skull Crusher"}},
	{Name: "Overhead Triceps Extension", Group: models.MuscleGroupTriceps, Aliases: []string{"Overhead Tricep Extension", "French Press"}},
	{Name: "Close Grip Bench Press", Group: models.MuscleGroupTriceps, Aliases: []string{"CGBP", "Close Grip Bench"}},
	{Name: "Wrist Curl", Group: models.MuscleGroupForearms, Aliases: []string{"Reverse Wrist Curl", "Forearm Curl"}},
	{Name: "Farmer's Walk", Group: models.MuscleGroupForearms, Aliases: []string{"Farmers Walk", "Farmer Carry"}},

	// Shoulders
	{Name: "Overhead Press", Group: models.MuscleGroupShoulders, Aliases: []string{"Military Press", "Shoulder Press", "Standing Press"}},
	{Name: "Dumbbell Shoulder Press", Group: models.MuscleGroupShoulders, Aliases: []string{"Seated Dumbbell Press", "Arnold Press"}},
	{Name: "Lateral Raise", Group: models.MuscleGroupShoulders, Aliases: []string{"Side Raise", "Side Lateral Raise", "Cable Lateral Raise"}},
	{Name: "Face Pull", Group: models.MuscleGroupShoulders, Aliases: []string{"Rope Face Pull"}},
	{Name: "Reverse Fly", Group: models.MuscleGroupShoulders, Aliases: []string{"Rear Delt Fly", "Reverse Pec Deck"}},

	// Legs
	{Name: "Squat", Group: models.MuscleGroupQuads, Aliases: []string{"Back Squat", "Barbell Squat", "Front Squat", "Sumo Squat"}},
	{Name: "Hack Squat", Group: models.MuscleGroupQuads, Aliases: []string{"Machine Hack Squat"}},
	{Name: "Leg Press", Group: models.MuscleGroupQuads, Aliases: []string{"Machine Leg Press"}},
	{Name: "Leg Extension", Group: models.MuscleGroupQuads, Aliases: []string{"Quad Extension"}},
	{Name: "Lunge", Group: models.MuscleGroupQuads, Aliases: []string{"Reverse Lunge", "Walking Lunge", "Bulgarian Split Squat", "Split Squat"}},
	{Name: "Romanian Deadlift", Group: models.MuscleGroupHamstrings, Aliases: []string{"RDL", "Stiff Leg Deadlift", "SLDL"}},
	{Name: "Leg Curl", Group: models.MuscleGroupHamstrings, Aliases: []string{"Lying Leg Curl", "Seated Leg Curl", "Hamstring Curl"}},
	{Name: "Hip Thrust", Group: models.MuscleGroupGlutes, Aliases: []string{"Barbell Hip Thrust", "Glute Bridge"}},
	{Name: "Hip Abduction", Group: models.MuscleGroupGlutes, Aliases: []string{"Abductor Machine", "Cable Kickback", "Glute Kickback"}},
	{Name: "Standing Calf Raise", Group: models.MuscleGroupCalves, Aliases: []string{"Calf Raise", "Seated Calf Raise", "Calf Press"}},

	// Core
	{Name: "Plank", Group: models.MuscleGroupCore, Aliases: []string{"Front Plank", "Side Plank"}},
	{Name: "Crunch", Group: models.MuscleGroupCore, Aliases: []string{"Cable Crunch", "Sit Up", "Situp"}},
	{Name: "Hanging Leg Raise", Group: models.MuscleGroupCore, Aliases: []string{"Leg Raise", "Hanging Knee Raise", "Captain's Chair"}},
	{Name: "Ab Wheel Rollout", Group: models.MuscleGroupCore, Aliases: []string{"Ab Rollout", "Ab Wheel"}},
	{Name: "Russian Twist", Group: models.MuscleGroupCore},

	// Cardio
	{Name: "Running", Group: models.MuscleGroupCardio, Tracking: models.TrackDistance, Aliases: []string{"Run", "Treadmill", "Jog", "Jogging"}},
	{Name: "Cycling", Group: models.MuscleGroupCardio, Tracking: models.TrackDistance, Aliases: []string{"Bike", "Stationary Bike", "Spin Bike"}},
	{Name: "Rowing", Group: models.MuscleGroupCardio, Tracking: models.TrackDistance, Aliases: []string{"Rowing Machine", "Rower", "Erg"}},
	{Name: "Walking", Group: models.MuscleGroupCardio, Tracking: models.TrackDistance, Aliases: []string{"Walk", "Incline Walk"}},
	{Name: "Elliptical", Group: models.MuscleGroupCardio, Tracking: models.TrackDistance, Aliases: []string{"Cross Trainer"}},
	{Name: "Swimming", Group: models.MuscleGroupCardio, Tracking: models.TrackDistance, Aliases: []string{"Swim"}},
}

// defaultKeywords are checked in order against the normalised name.
var defaultKeywords = []keyword{
	{"calf", models.MuscleGroupCalves, models.TrackWeight},
	{"curl", models.MuscleGroupBiceps, models.TrackWeight},
	{"tricep", models.MuscleGroupTriceps, models.TrackWeight},
	{"pushdown", models.MuscleGroupTriceps, models.TrackWeight},
	{"squat", models.MuscleGroupQuads, models.TrackWeight},
	{"lunge", models.MuscleGroupQuads, models.TrackWeight},
	{"deadlift", models.MuscleGroupBack, models.TrackWeight},
	{"row", models.MuscleGroupBack, models.TrackWeight},
	{"pulldown", models.MuscleGroupBack, models.TrackWeight},
	{"glute", models.MuscleGroupGlutes, models.TrackWeight},
	{"bench", models.MuscleGroupChest, models.TrackWeight},
	{"fly", models.MuscleGroupChest, models.TrackWeight},
	{"raise", models.MuscleGroupShoulders, models.TrackWeight},
	{"press", models.MuscleGroupShoulders, models.TrackWeight},
	{"crunch", models.MuscleGroupCore, models.TrackWeight},
	{"ab", models.MuscleGroupCore, models.TrackWeight},
	{"run", models.MuscleGroupCardio, models.TrackDistance},
	{"bike", models.MuscleGroupCardio, models.TrackDistance},
}
