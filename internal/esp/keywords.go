package esp

// wellKnownNames maps vanilla Fallout4.esm FormIDs that modded plugins
// reference constantly (weapon and object type keywords) to their editor
// ids. Loaded once, never mutated.
var wellKnownNames = map[FormID]string{
	0x0004a0a2: "WeaponTypeRifle",
	0x0004a0a1: "WeaponTypePistol",
	0x00054c45: "WeaponTypeShotgun",
	0x000a36be: "WeaponTypeSniper",
	0x000a36d6: "WeaponTypeGatling",
	0x00054c46: "WeaponTypeLaser",
	0x000a36d4: "WeaponTypePlasma",
	0x000a36d5: "WeaponTypeHeavyGun",
	0x0004a0a4: "WeaponTypeMelee1H",
	0x0004a0a5: "WeaponTypeMelee2H",
	0x0004a0a6: "WeaponTypeUnarmed",
	0x0004a0a3: "WeaponTypeAutomatic",
	0x000a36d7: "WeaponTypeGrenade",
	0x000a36d8: "WeaponTypeMine",
	0x000424ef: "ObjectTypeWeapon",
	0x000424ee: "ObjectTypeArmor",
	0x000424f0: "ObjectTypeDrink",
	0x000424f1: "ObjectTypeFood",
}

// WellKnownName looks up the static engine table.
func WellKnownName(id FormID) (string, bool) {
	name, ok := wellKnownNames[id]
	return name, ok
}
