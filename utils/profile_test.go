package utils

import (
	"math"
	"testing"
	"time"
)

func TestCalculateBMI(t *testing.T) {
	bmi, err := CalculateBMI(180, 81)
	if err != nil {
		t.Fatalf("CalculateBMI() error = %v", err)
	}
	if math.Abs(bmi-25.0) > 0.01 {
		t.Errorf("BMI = %v, want 25.0", bmi)
	}
}

func TestCalculateBMIRejectsImplausibleInput(t *testing.T) {
	cases := []struct{ height, weight float64 }{
		{0, 80},
		{180, 0},
		{-170, 70},
		{30, 70},
		{180, 900},
	}
	for _, tc := range cases {
		if _, err := CalculateBMI(tc.height, tc.weight); err == nil {
			t.Errorf("CalculateBMI(%v, %v) should fail", tc.height, tc.weight)
		}
	}
}

func TestBMICategory(t *testing.T) {
	cases := []struct {
		bmi  float64
		want string
	}{
		{17, "Underweight"},
		{22, "Normal weight"},
		{27, "Overweight"},
		{32, "Obesity class I"},
		{37, "Obesity class II"},
		{42, "Obesity class III"},
	}
	for _, tc := range cases {
		if got := BMICategory(tc.bmi); got != tc.want {
			t.Errorf("BMICategory(%v) = %q, want %q", tc.bmi, got, tc.want)
		}
	}
}

func TestDaysUntil(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	target := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	if got := DaysUntil(now, target); got != 30 {
		t.Errorf("DaysUntil() = %d, want 30", got)
	}
	if got := DaysUntil(target, now); got != -30 {
		t.Errorf("DaysUntil() past target = %d, want -30", got)
	}
}
