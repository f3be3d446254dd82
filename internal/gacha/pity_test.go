package gacha

import "testing"

func TestPitySystem(t *testing.T) {
	ps := NewPitySystem(10, NewSeededRNG(42))

	for i := 0; i < 9; i++ {
		hit, err := ps.Draw(0.0)
		if err != nil {
			t.Fatal(err)
		}
		if hit {
			t.Fatalf("should not hit before pity, i=%d", i)
		}
	}
	hit, err := ps.Draw(0.0)
	if err != nil {
		t.Fatal(err)
	}
	if !hit {
		t.Fatalf("expected pity hit at 10th draw")
	}
	if ps.Streak != 0 {
		t.Fatalf("streak should reset after pity hit; got %d", ps.Streak)
	}
}

func TestPityDisabledFallsBackToPlainDraw(t *testing.T) {
	ps := NewPitySystem(0, NewSeededRNG(1))
	for i := 0; i < 100; i++ {
		hit, err := ps.Draw(0)
		if err != nil || hit {
			t.Fatalf("disabled pity must never force a hit; i=%d", i)
		}
	}
}

func TestSoftPityRamp(t *testing.T) {
	sp, err := NewSoftPitySystem(10, &SoftPityConfig{StartAt: 4, TargetProb: 0.5}, NewSeededRNG(3))
	if err != nil {
		t.Fatal(err)
	}
	if p := sp.EffectiveProb(0.02); p != 0.02 {
		t.Fatalf("before ramp p should be base; got %f", p)
	}
	sp.Streak = 9
	if p := sp.EffectiveProb(0.02); p != 1 {
		t.Fatalf("at pity p should be 1; got %f", p)
	}
	// linear: 0.02 + (0.5-0.02) * (8-4)/5
	sp.Streak = 8
	if p := sp.EffectiveProb(0.02); p < 0.403 || p > 0.405 {
		t.Fatalf("ramp should be 80%% of the way to target; got %f", p)
	}
}

func TestSoftPityRejectsBadConfig(t *testing.T) {
	if _, err := NewSoftPitySystem(10, &SoftPityConfig{StartAt: 9, TargetProb: 0.5}, nil); err == nil {
		t.Fatalf("start_at at pity-1 must be rejected")
	}
	if _, err := NewSoftPitySystem(10, &SoftPityConfig{StartAt: 2, TargetProb: 1.5}, nil); err == nil {
		t.Fatalf("target outside (0,1) must be rejected")
	}
}
