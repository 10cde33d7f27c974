// Package recommender ranks paint products from order history: overall
// popularity and item-to-item similarity from co-occurrence in the same order.
package recommender
