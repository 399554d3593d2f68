package character

import (
	"testing"

	"github.com/wuggawugga/adventurebot/pkg/item"
)

func sword() *item.Item {
	return &item.Item{Name: "sword", Slots: []item.Slot{item.SlotLeft}, Rarity: item.RarityNormal, Att: 3}
}

func shield() *item.Item {
	return &item.Item{Name: "shield", Slots: []item.Slot{item.SlotRight}, Rarity: item.RarityNormal, Att: 1, Dex: 2}
}

func greatsword() *item.Item {
	return &item.Item{Name: "greatsword", Slots: []item.Slot{item.SlotLeft, item.SlotRight}, Rarity: item.RarityRare, Att: 5}
}

func TestEquip_SingleSlot(t *testing.T) {
	c := New("user1")
	c.Equip(sword(), false)

	if c.Equipped[item.SlotLeft] == nil || c.Equipped[item.SlotLeft].Name != "sword" {
		t.Fatal("Expected sword in left slot")
	}
	if c.TotalAtt() != 3 {
		t.Errorf("TotalAtt() = %d, want 3", c.TotalAtt())
	}
}

func TestEquip_TwoHandedDisplacesBothHands(t *testing.T) {
	c := New("user1")
	c.Equip(sword(), false)
	c.Equip(shield(), false)
	c.Equip(greatsword(), false)

	// Both hand slots reference the same two-handed item.
	left, right := c.Equipped[item.SlotLeft], c.Equipped[item.SlotRight]
	if left == nil || left.Name != "greatsword" {
		t.Fatal("Expected greatsword in left slot")
	}
	if left != right {
		t.Error("Expected both hand slots to reference the same item")
	}

	// Displaced items land in the backpack with owned count 1.
	for _, name := range []string{"sword", "shield"} {
		bp, ok := c.Backpack[name]
		if !ok {
			t.Fatalf("Expected %s in backpack", name)
		}
		if bp.Owned != 1 {
			t.Errorf("Expected %s owned count 1, got %d", name, bp.Owned)
		}
	}
}

func TestEquip_SingleHandDisplacesTwoHanded(t *testing.T) {
	c := New("user1")
	c.Equip(greatsword(), false)
	c.Equip(sword(), false)

	if c.Equipped[item.SlotRight] != nil {
		t.Error("Expected right slot empty after displacing two-handed item")
	}
	bp, ok := c.Backpack["greatsword"]
	if !ok || bp.Owned != 1 {
		t.Errorf("Expected greatsword in backpack once, got %+v", bp)
	}
}

func TestEquip_DisplacedDuplicateAggregatesOwnedCount(t *testing.T) {
	c := New("user1")
	c.BackpackAdd(sword())
	c.Equip(sword(), false)
	c.Equip(greatsword(), false) // displaces the equipped sword

	bp := c.Backpack["sword"]
	if bp == nil || bp.Owned != 2 {
		t.Fatalf("Expected sword owned count 2, got %+v", bp)
	}
}

func TestEquip_FromBackpackConsumesCopy(t *testing.T) {
	c := New("user1")
	c.BackpackAdd(sword())

	c.Equip(c.Backpack["sword"], true)

	if _, ok := c.Backpack["sword"]; ok {
		t.Error("Expected sword removed from backpack after equipping")
	}
	if c.Equipped[item.SlotLeft] == nil {
		t.Error("Expected sword equipped")
	}
}

func TestStatDerivation_TwoHandedCountsDouble(t *testing.T) {
	c := New("user1")
	c.Equip(greatsword(), false)
	c.Equip(&item.Item{Name: "lucky ring", Slots: []item.Slot{item.SlotRing}, Rarity: item.RarityNormal, Luck: 4}, false)

	if got := c.TotalAtt(); got != 10 {
		t.Errorf("TotalAtt() = %d, want 10 (two-handed doubles)", got)
	}
	if got := c.TotalLuck(); got != 4 {
		t.Errorf("TotalLuck() = %d, want 4", got)
	}
}

func TestStatDerivation_HoldsAfterEquipUnequipSequence(t *testing.T) {
	c := New("user1")
	c.Equip(sword(), false)
	c.Equip(shield(), false)
	c.Equip(greatsword(), false)
	c.Unequip("greatsword")
	c.Equip(c.Backpack["sword"], true)

	if got := c.TotalAtt(); got != 3 {
		t.Errorf("TotalAtt() = %d, want 3", got)
	}
	if got := c.TotalDex(); got != 0 {
		t.Errorf("TotalDex() = %d, want 0 (shield not equipped)", got)
	}
}

func TestUnequip(t *testing.T) {
	c := New("user1")
	c.Equip(greatsword(), false)

	if !c.Unequip("greatsword") {
		t.Fatal("Expected unequip to succeed")
	}
	if len(c.Equipped) != 0 {
		t.Error("Expected both hand slots cleared")
	}
	if c.Backpack["greatsword"] == nil {
		t.Error("Expected greatsword in backpack")
	}
	if c.Unequip("greatsword") {
		t.Error("Expected second unequip to fail")
	}
}

func TestLoadout_SaveAndRestore(t *testing.T) {
	c := New("user1")
	c.Equip(greatsword(), false)
	c.SaveLoadout("war")

	c.Equip(sword(), false) // displaces greatsword to backpack
	if !c.EquipLoadout("war") {
		t.Fatal("Expected loadout equip to succeed")
	}

	left := c.Equipped[item.SlotLeft]
	if left == nil || left.Name != "greatsword" {
		t.Errorf("Expected greatsword equipped, got %+v", left)
	}
}

func TestLoadout_MissingItemLeavesSlotEmpty(t *testing.T) {
	c := New("user1")
	c.Equip(sword(), false)
	c.SaveLoadout("old")

	c.Unequip("sword")
	c.BackpackRemove("sword") // item no longer owned

	if !c.EquipLoadout("old") {
		t.Fatal("Expected loadout equip to succeed")
	}
	if c.Equipped[item.SlotLeft] != nil {
		t.Error("Expected left slot to stay empty for unowned item")
	}
}

func TestAddExp_LevelAndSkillPool(t *testing.T) {
	c := New("user1")

	// 10000 exp -> level 10 -> pool floor(10/5) = 2.
	c.AddExp(10000)
	if got := c.Level(); got != 10 {
		t.Fatalf("Level() = %d, want 10", got)
	}
	if c.SkillPool != 2 {
		t.Errorf("SkillPool = %d, want 2", c.SkillPool)
	}

	if err := c.AllocateSkill("att", 2); err != nil {
		t.Fatalf("AllocateSkill failed: %v", err)
	}
	if c.SkillPool != 0 || c.SkillAtt != 2 {
		t.Errorf("pool=%d att=%d, want 0 and 2", c.SkillPool, c.SkillAtt)
	}

	// Allocation beyond the pool must fail, pool never goes negative.
	if err := c.AllocateSkill("cha", 1); err == nil {
		t.Error("Expected error allocating from empty pool")
	}

	// Level 10 -> 20: pool = floor(20/5) - 2 allocated = 2.
	c.AddExp(160000 - c.Exp)
	if c.SkillPool != 2 {
		t.Errorf("SkillPool after level 20 = %d, want 2", c.SkillPool)
	}
}

func TestRebirth(t *testing.T) {
	c := New("user1")
	c.AddExp(10000)
	if err := c.AllocateSkill("int", 1); err != nil {
		t.Fatalf("AllocateSkill failed: %v", err)
	}
	c.Equip(sword(), false)

	c.Rebirth()

	if c.Exp != 0 || c.Level() != 0 {
		t.Error("Expected exp and level reset")
	}
	if c.SkillPool != 0 || c.SkillInt != 0 {
		t.Error("Expected skill allocation reset")
	}
	if c.Rebirths != 1 {
		t.Errorf("Rebirths = %d, want 1", c.Rebirths)
	}
	if c.Equipped[item.SlotLeft] == nil {
		t.Error("Expected gear to survive rebirth")
	}
}

func TestChests(t *testing.T) {
	c := New("user1")
	c.AddChest(item.RarityEpic, 2)

	if !c.TakeChest(item.RarityEpic) {
		t.Fatal("Expected chest available")
	}
	if !c.TakeChest(item.RarityEpic) {
		t.Fatal("Expected second chest available")
	}
	if c.TakeChest(item.RarityEpic) {
		t.Error("Expected no chests left")
	}
}

func TestMarshalUnmarshal_RoundTrip(t *testing.T) {
	c := New("user1")
	c.AddExp(10000)
	c.Equip(greatsword(), false)
	c.BackpackAdd(sword())
	c.BackpackAdd(sword())
	c.SaveLoadout("main")
	c.AddChest(item.RarityRare, 3)
	c.Class = HeroClass{Kind: ClassRanger, AbilityActive: true, Pet: &Pet{Name: "wolf", Bonus: 1.5}}

	data, err := c.Marshal()
	if err != nil {
		t.Fatalf("Failed to marshal character: %v", err)
	}

	got, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Failed to unmarshal character: %v", err)
	}

	if got.Level() != c.Level() {
		t.Errorf("Level mismatch: got %d, want %d", got.Level(), c.Level())
	}
	if got.TotalAtt() != c.TotalAtt() {
		t.Errorf("TotalAtt mismatch: got %d, want %d", got.TotalAtt(), c.TotalAtt())
	}
	left, right := got.Equipped[item.SlotLeft], got.Equipped[item.SlotRight]
	if left == nil || left != right {
		t.Error("Expected two-handed aliasing restored after unmarshal")
	}
	if got.Backpack["sword"] == nil || got.Backpack["sword"].Owned != 2 {
		t.Error("Expected backpack owned counts preserved")
	}
	if !got.Class.HasActivePet() {
		t.Error("Expected ranger pet preserved")
	}
}

func TestUnmarshal_CorruptRecord(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `{`},
		{"missing user", `{"exp": 10}`},
		{"bad equipped item", `{"user_id":"u","class":{"kind":"hero"},"equipped":{"left":{"name":"x","slot":["elbow"],"rarity":"normal"}}}`},
		{"bad backpack item", `{"user_id":"u","class":{"kind":"hero"},"backpack":{"x":{"name":"x","slot":["left"],"rarity":"mythic"}}}`},
		{"ranger fields on wizard", `{"user_id":"u","class":{"kind":"wizard","pet":{"name":"owl","bonus":2}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Unmarshal([]byte(tt.raw)); err == nil {
				t.Error("Expected corrupt record error")
			}
		})
	}
}

func TestUnmarshal_DefaultsMissingKeys(t *testing.T) {
	got, err := Unmarshal([]byte(`{"user_id":"u"}`))
	if err != nil {
		t.Fatalf("Failed to unmarshal minimal record: %v", err)
	}
	if got.Class.Kind != ClassHero {
		t.Errorf("Expected default hero class, got %s", got.Class.Kind)
	}
	if got.Backpack == nil || got.Equipped == nil || got.Chests == nil || got.Loadouts == nil {
		t.Error("Expected maps initialized for missing keys")
	}
}
