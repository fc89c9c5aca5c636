package app

// SampleList is a ready-made list of Quad Cities restaurants for trying the
// app without a location or a list of your own
const SampleList = `Tatsu Ramen — Japanese — 41.5236,-90.5776
La Taquería Río — Mexican — 41.5089,-90.5783
Brickhouse Pizza — Pizza — 41.5361,-90.5671
Green Bowl — Healthy — 41.5192,-90.5650
Cedar BBQ — BBQ — 41.4920,-90.5630
Tandoori Flame — Indian — 41.4900,-90.5820
Sushi Garden — Sushi — 41.5205,-90.5710
Pho Square — Vietnamese — 41.5315,-90.5600
Bluebird Cafe — Brunch — 41.5200,-90.5900
Al-Amir — Middle Eastern — 41.5005,-90.5700`
