package netcomponents

import "github.com/yohamta/donburi"

// NetEnemyData identifies a personal enemy and the player it faces.
type NetEnemyData struct {
	EnemyID        string
	Name           string
	Sprite         string
	Element        int // items.Element
	AssignedPlayer string
}

var NetEnemy = donburi.NewComponentType[NetEnemyData]()
