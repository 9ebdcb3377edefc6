// Package names holds the built-in sample dataset used to seed new
// collections: ten spellings each of twelve person and place names.
package names

var sample = []string{
	"Geetha", "Gita", "Gitu", "Githa", "Keetha", "Meetha", "Seetha", "Heetha", "Sheetal", "Geeta",
	"John", "Jon", "Jhon", "Jonn", "Joan", "Jane", "Jayne", "Jan", "Janne", "Johnny",
	"Michael", "Mike", "Micheal", "Mikel", "Micael", "Mykel", "Miguel", "Michele", "Michaela", "Micaella",
	"Sarah", "Sara", "Saara", "Serah", "Sarra", "Saraah", "Sarrah", "Sarita", "Saniya", "Saanvi",
	"David", "Dave", "Davide", "Davi", "Davie", "Davy", "Davidson", "Davis", "Dav", "Daan",
	"Priya", "Preeya", "Priyaa", "Priyah", "Priyo", "Priyaank", "Prisha", "Priyanka", "Priyadarshini", "Prithvi",
	"Rahul", "Raul", "Rahil", "Rahuul", "Rahu", "Rohul", "Raheel", "Rajan", "Ramesh", "Rakesh",
	"Chennai", "Chenai", "Chenna", "Chinai", "Channai", "Chennapattanam", "Madras", "Cheannai", "Sennai", "Shennai",
	"Mumbai", "Mumbay", "Bombay", "Mumbaai", "Mumbhai", "Bambai", "Mumbayyi", "Mumbey", "Mumba", "Mumby",
	"Delhi", "Dehli", "Del", "Dilli", "Delhe", "Dehlih", "Delhia", "Dilhi", "Dela", "Dhilli",
	"New York", "NYC", "Newyork", "Nu York", "Nyork", "New Yawk", "Newyork city", "Big Apple", "Nyu York", "New York City",
	"London", "Londun", "Londan", "Londin", "Lunden", "Lundun", "Londyn", "Lon", "Londo", "Lond",
}

// Sample returns a copy of the sample dataset.
func Sample() []string {
	out := make([]string, len(sample))
	copy(out, sample)
	return out
}
