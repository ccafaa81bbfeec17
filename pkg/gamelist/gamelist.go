// Package gamelist provides a static lookup from a title identifier to a
// human-readable game name. It is pure data: the table ships with the binary
// and lookups have no failure mode beyond "not found".
package gamelist

// Lookup returns the display name for a title identifier.
func Lookup(titleID uint32) (string, bool) {
	name, ok := titles[titleID]
	return name, ok
}

// titles maps 32-bit title identifiers to display names. The table covers
// commonly converted retail titles; unknown ids simply fall back to an
// untitled package.
var titles = map[uint32]string{
	0x4D5307D5: "Gears of War",
	0x4D53082D: "Gears of War 2",
	0x4D5308AB: "Gears of War 3",
	0x4D5307E6: "Halo 3",
	0x4D530877: "Halo 3: ODST",
	0x4D53085B: "Halo: Reach",
	0x4D530919: "Halo 4",
	0x4D5307DE: "Fable II",
	0x4D530820: "Fable III",
	0x4D5307F2: "Forza Motorsport 3",
	0x4D5309C9: "Forza Motorsport 4",
	0x4D5308F8: "Forza Horizon",
	0x4D53088B: "Crackdown 2",
	0x4D5307ED: "Viva Pinata",
	0x41560817: "Call of Duty: Modern Warfare 2",
	0x41560855: "Call of Duty: Black Ops",
	0x415608C3: "Call of Duty: Modern Warfare 3",
	0x41560914: "Call of Duty: Black Ops II",
	0x425307E6: "The Elder Scrolls V: Skyrim",
	0x425307D5: "The Elder Scrolls IV: Oblivion",
	0x42530802: "Fallout 3",
	0x42530882: "Fallout: New Vegas",
	0x545407F2: "Grand Theft Auto IV",
	0x5454082B: "Red Dead Redemption",
	0x545408A7: "L.A. Noire",
	0x54540914: "Grand Theft Auto V",
	0x4541080F: "Mass Effect 2",
	0x454108EC: "Mass Effect 3",
	0x45410829: "Dragon Age: Origins",
	0x45410912: "Battlefield 3",
	0x555307E6: "BioShock",
	0x55530842: "BioShock 2",
	0x555308C1: "BioShock Infinite",
	0x55530873: "Borderlands",
	0x545108CB: "Batman: Arkham City",
	0x54510841: "Batman: Arkham Asylum",
	0x4B4E0833: "Dark Souls",
	0x4B4E08A5: "Dark Souls II",
	0x5553081D: "Red Faction: Guerrilla",
	0x53450811: "Bayonetta",
	0x534507D9: "Sonic the Hedgehog",
	0x53450846: "Vanquish",
	0x4E4D07D7: "Ninja Gaiden II",
	0x4341083E: "Assassin's Creed II",
	0x43410889: "Assassin's Creed: Brotherhood",
	0x434108FB: "Far Cry 3",
	0x4341085E: "Splinter Cell: Conviction",
}
